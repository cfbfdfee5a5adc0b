package pipeline

import "fmt"

// Stage names a pipeline step
type Stage string

const (
	StageRender  Stage = "render"
	StageIndex   Stage = "index"
	StagePublish Stage = "publish"
)

// RunError is a failed run; nothing was published
type RunError struct {
	Stage Stage
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
