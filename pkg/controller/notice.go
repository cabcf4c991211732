package controller

import (
	apperr "github.com/matzehuels/discograph/pkg/errors"
)

// Severity ranks a [Notice].
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notice is a message meant for the user. The zero Notice means "show nothing".
type Notice struct {
	Severity Severity    `json:"severity"`
	Code     apperr.Code `json:"code"`
	Message  string      `json:"message"`
}

// IsZero reports whether there is nothing to show.
func (n Notice) IsZero() bool { return n.Message == "" }

// NoticeFor converts a controller error into a user-visible notice.
//
// Transport details never reach the user. INVALID_TARGET (a client bug) and
// SUPERSEDED (the user already moved on) produce the zero Notice.
func NoticeFor(err error) Notice {
	if err == nil {
		return Notice{}
	}
	code := apperr.GetCode(err)
	switch code {
	case apperr.ErrCodeInvalidTarget, apperr.ErrCodeSuperseded:
		return Notice{}
	case apperr.ErrCodeNotFound:
		return Notice{Severity: SeverityInfo, Code: code, Message: apperr.UserMessage(err)}
	case apperr.ErrCodeInvalidInput:
		return Notice{Severity: SeverityInfo, Code: code, Message: apperr.UserMessage(err)}
	case apperr.ErrCodeInvalidState:
		return Notice{Severity: SeverityInfo, Code: code, Message: "Select an artist first."}
	case apperr.ErrCodeUpstream:
		return Notice{Severity: SeverityError, Code: code, Message: "The music catalog could not be reached. Please try again."}
	default:
		return Notice{Severity: SeverityError, Code: apperr.ErrCodeInternal, Message: "Something went wrong."}
	}
}
