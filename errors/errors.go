package errors

import "fmt"

var (
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrEmptyWords           = fmt.Errorf("no words have been found")
	ErrUnknownPersona       = fmt.Errorf("unknown persona")
	ErrRoomNotFound         = fmt.Errorf("room not found")
	ErrGenerationFailed     = fmt.Errorf("generation failed")
	ErrClassificationFailed = fmt.Errorf("classification failed")
)
