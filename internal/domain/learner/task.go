package learner

import "time"

// Phase identifies a lifecycle phase of the current task.
type Phase string

const (
	// PhaseBefore is the pre-training phase: prediction caching and head growth.
	PhaseBefore Phase = "before"
	// PhaseTraining is the supervised optimization phase.
	PhaseTraining Phase = "training"
	// PhaseAfter is the exemplar reduction and rebuild phase.
	PhaseAfter Phase = "after"
	// PhaseEval is the nearest-class-mean evaluation phase.
	PhaseEval Phase = "eval"
)

// Task describes one increment of new classes in the continual stream.
// A task is immutable once assigned.
type Task struct {
	// Index is the ordered task index, starting at zero.
	Index int `json:"index"`

	// NewClassIndex is the first logit column owned by this task. Columns
	// below it belong to previously learned classes.
	NewClassIndex int `json:"newClassIndex"`

	// Size is the number of classes this task introduces.
	Size int `json:"size"`
}

// ClassRange returns the half-open class-id range introduced by the task.
func (t Task) ClassRange() (lo, hi int) {
	return t.NewClassIndex, t.NewClassIndex + t.Size
}

// Snapshot is a value copy of the learner state persisted after a completed
// after-task phase: head weights, exemplar identifier sets and class means.
type Snapshot struct {
	// ID is the unique snapshot identifier.
	ID string `json:"id"`

	// RunID identifies the training run the snapshot belongs to.
	RunID string `json:"runId"`

	// Task is the task index the snapshot was taken after.
	Task int `json:"task"`

	// NClasses is the number of classes known at snapshot time.
	NClasses int `json:"nClasses"`

	// HeadWeights are the classifier head rows, one per class.
	HeadWeights [][]float64 `json:"headWeights"`

	// Exemplars maps class id to its priority-ordered exemplar identifiers.
	Exemplars map[int][]int `json:"exemplars"`

	// Means are the unit-normalized class means in class-id order.
	Means [][]float64 `json:"means"`

	// CreatedAt is the snapshot creation time.
	CreatedAt time.Time `json:"createdAt"`
}
