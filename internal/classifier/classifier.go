// Package classifier implements the scorers the aggregator combines: the
// multinomial naive-Bayes classifier over frequent n-grams, and the three
// logarithmic scalar classifiers (file size, file age, directory
// cardinality). Every classifier implements the uniform Classifier
// interface; DirSize additionally implements Mutable for pool-membership
// bookkeeping.
package classifier

import "github.com/clipcull/clipcull/internal/pipeline"

// Classifier is the uniform scoring capability the aggregator holds by
// reference.
type Classifier interface {
	Name() string
	Score(e *pipeline.Entry) float64
}

// Mutable is the additional capability DirSize exposes: classifiers that
// need to track pool membership as candidates enter or leave.
type Mutable interface {
	AddEntry(e *pipeline.Entry)
	RemoveEntry(e *pipeline.Entry)
}
