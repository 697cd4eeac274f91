package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyTransport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "net timeout",
			err:  timeoutErr{},
			want: KindTimeout,
		},
		{
			name: "context deadline",
			err:  fmt.Errorf("request failed: %w", context.DeadlineExceeded),
			want: KindTimeout,
		},
		{
			name: "dns failure",
			err:  &net.DNSError{Err: "no such host", Name: "engine.internal"},
			want: KindDNS,
		},
		{
			name: "connection refused",
			err:  &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)},
			want: KindRefused,
		},
		{
			name: "anything else",
			err:  errors.New("broken pipe"),
			want: KindUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engErr := classifyTransport(tt.err)
			if engErr.Kind != tt.want {
				t.Errorf("Expected kind %q, got %q", tt.want, engErr.Kind)
			}
			if engErr.Message != ConnectivityMessage {
				t.Errorf("Expected fixed connectivity message, got %q", engErr.Message)
			}
			if !engErr.Connectivity() {
				t.Error("Expected a connectivity classification")
			}
			if engErr.Err != tt.err {
				t.Error("Expected the original error to stay wrapped for logs")
			}
		})
	}
}

func TestErrorConnectivity(t *testing.T) {
	if remoteError("duplicate key", 200).Connectivity() {
		t.Error("Expected remote errors to not classify as connectivity")
	}
	for _, kind := range []Kind{KindTimeout, KindDNS, KindRefused, KindBreakerOpen, KindUnreachable} {
		if !(&Error{Kind: kind}).Connectivity() {
			t.Errorf("Expected kind %q to classify as connectivity", kind)
		}
	}
}

func TestBreakerCountable(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want bool
	}{
		{"timeout", &Error{Kind: KindTimeout}, true},
		{"refused", &Error{Kind: KindRefused}, true},
		{"bad gateway", remoteError("bad gateway", 502), true},
		{"service unavailable", remoteError("unavailable", 503), true},
		{"gateway timeout", remoteError("slow", 504), true},
		{"application error", remoteError("duplicate key", 200), false},
		{"client error", remoteError("bad request", 400), false},
		{"plain server error", remoteError("boom", 500), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.breakerCountable(); got != tt.want {
				t.Errorf("Expected countable=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection reset")
	engErr := &Error{Kind: KindUnreachable, Message: ConnectivityMessage, Err: cause}

	if got := engErr.Error(); got != "could not reach the data engine: dial tcp: connection reset" {
		t.Errorf("Unexpected error string: %q", got)
	}
	if !errors.Is(engErr, cause) {
		t.Error("Expected Unwrap to expose the cause")
	}
}
