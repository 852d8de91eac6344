package chat

// Stage names the pipeline step that produced a failure.
type Stage string

const (
	StageUpload        Stage = "upload"
	StageTranscription Stage = "transcription"
	StageHistory       Stage = "history"
	StageDialogue      Stage = "dialogue"
	StageSynthesis     Stage = "synthesis"
	StageInternal      Stage = "internal"
)

// Failure is the discriminated outcome of a failed pipeline run. Status and
// Detail are safe to show the caller; Err keeps the full cause for the logs.
type Failure struct {
	Stage  Stage
	Status int
	Detail string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return string(f.Stage) + ": " + f.Err.Error()
	}
	return string(f.Stage) + ": " + f.Detail
}

func (f *Failure) Unwrap() error { return f.Err }

func fail(stage Stage, status int, detail string, err error) *Failure {
	return &Failure{Stage: stage, Status: status, Detail: detail, Err: err}
}
