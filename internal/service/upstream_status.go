package service

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Client-facing messages of the Best Sellers search.
const (
	MessageSuccess          = "Successfully executed the request."
	MessageUnexpectedError  = "An unexpected error occurred. Please try again later."
	MessageUnknownUpstream  = "Unable to complete the request at this time."
	MessageUpstreamBadInput = "An invalid request was made to the NYT API, please check your input parameters."
	MessageUpstreamAuth     = "An unexpected error occurred, please try again later."
	MessageUpstreamNotFound = "Unable to complete the request at this time, please contact administration."
	MessageUpstreamTimeout  = "A timeout occurred while making a request to the NYT API. Please try again later."
	MessageUpstreamLimited  = "Too many requests were made to the NYT API in a short amount of time. Please try again in 5 minutes."
)

// upstreamStatus describes how one non-200 upstream status is reported.
type upstreamStatus struct {
	// message is sent to the caller. The upstream body never is.
	message string

	level  zerolog.Level
	logMsg string

	// logParams and logBody add the outbound parameters and the raw
	// upstream body to the log entry.
	logParams bool
	logBody   bool
}

var upstreamStatuses = map[int]upstreamStatus{
	http.StatusBadRequest: {
		message:   MessageUpstreamBadInput,
		level:     zerolog.WarnLevel,
		logMsg:    "a bad request was sent to the NYT API",
		logParams: true,
		logBody:   true,
	},
	http.StatusUnauthorized: {
		message: MessageUpstreamAuth,
		level:   zerolog.WarnLevel,
		logMsg:  "API key unauthorized for NYT API",
	},
	http.StatusNotFound: {
		message:   MessageUpstreamNotFound,
		level:     zerolog.WarnLevel,
		logMsg:    "request to NYT API was not found",
		logParams: true,
		logBody:   true,
	},
	http.StatusRequestTimeout: {
		message: MessageUpstreamTimeout,
		level:   zerolog.WarnLevel,
		logMsg:  "NYT API timeout",
	},
	http.StatusTooManyRequests: {
		message: MessageUpstreamLimited,
		level:   zerolog.WarnLevel,
		logMsg:  "too many requests were made to the NYT API",
	},
}

var unknownUpstreamStatus = upstreamStatus{
	message: MessageUnknownUpstream,
	level:   zerolog.ErrorLevel,
	logMsg:  "unexpected NYT API response",
	logBody: true,
}

// lookupUpstreamStatus returns the entry for code, falling back to the
// generic failure for anything not listed.
func lookupUpstreamStatus(code int) upstreamStatus {
	if entry, ok := upstreamStatuses[code]; ok {
		return entry
	}
	return unknownUpstreamStatus
}
