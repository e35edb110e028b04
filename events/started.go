package events

type Started struct {
	Base
	ExecutionId string
}

func NewStartedEvent(executionId string) *Started {
	return &Started{
		ExecutionId: executionId,
	}
}
