package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// Kind classifies an engine call failure.
type Kind string

const (
	// KindRemote means the engine answered with an application-level error.
	KindRemote Kind = "remote"
	// KindTimeout means the call exceeded the configured timeout.
	KindTimeout Kind = "timeout"
	// KindDNS means the engine host could not be resolved.
	KindDNS Kind = "dns"
	// KindRefused means the engine host refused the connection.
	KindRefused Kind = "refused"
	// KindBreakerOpen means the circuit breaker rejected the call without
	// attempting it.
	KindBreakerOpen Kind = "breaker_open"
	// KindUnreachable covers the remaining transport failures.
	KindUnreachable Kind = "unreachable"
)

// ConnectivityMessage is the only detail connectivity failures expose to
// callers. The underlying network error stays in logs.
const ConnectivityMessage = "could not reach the data engine"

// Error is the failure type for every engine call.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Connectivity reports whether the failure means the engine could not be
// reached, as opposed to the engine reporting an application error.
func (e *Error) Connectivity() bool {
	return e.Kind != KindRemote
}

// breakerCountable reports whether the failure counts against the circuit
// breaker. Transport failures and gateway-class statuses do; remote
// application errors do not.
func (e *Error) breakerCountable() bool {
	if e.Connectivity() {
		return true
	}
	switch e.Status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func remoteError(detail string, status int) *Error {
	return &Error{
		Kind:    KindRemote,
		Message: detail,
		Status:  status,
	}
}

// classifyTransport buckets a transport-level failure so the API layer can
// report connectivity problems without leaking network internals.
func classifyTransport(err error) *Error {
	kind := KindUnreachable
	switch {
	case isTimeoutError(err):
		kind = KindTimeout
	case isDNSError(err):
		kind = KindDNS
	case isConnRefusedError(err):
		kind = KindRefused
	}
	return &Error{Kind: kind, Message: ConnectivityMessage, Err: err}
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}
