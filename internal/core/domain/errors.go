package domain

import (
	"errors"
	"fmt"
)

// --- ERREURS DU DOMAINE ---
var (
	ErrFetch           = errors.New("fetch failed")
	ErrInvalidPage     = errors.New("page number must be >= 1")
	ErrInvalidSort     = errors.New("sort must be one of newest, oldest, popular")
	ErrInvalidLanguage = errors.New("language must be one of en, th")
)

// ErrorKind est la forme exposée d'une erreur dans FeedState.
type ErrorKind string

const (
	ErrorKindNone  ErrorKind = ""
	ErrorKindFetch ErrorKind = "FetchError"
)

// FetchError couvre les pannes réseau et les statuts non-2xx des appels amont.
type FetchError struct {
	Resource   string // "post", "user", "page", "directory"
	ID         int
	StatusCode int // 0 si pas de réponse
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s %d", e.Resource, e.ID)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": unexpected status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// AsFetchError garantit qu'une erreur remontée par le pipeline est une FetchError.
func AsFetchError(resource string, id int, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) && fe.Resource == resource {
		return err
	}
	return &FetchError{Resource: resource, ID: id, Err: err}
}

func KindOf(err error) ErrorKind {
	if err == nil {
		return ErrorKindNone
	}
	if errors.Is(err, ErrFetch) {
		return ErrorKindFetch
	}
	return ErrorKind("Error")
}
