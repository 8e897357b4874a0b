package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
	err = New(ErrCodeParse, "bad file", http.StatusUnprocessableEntity)
	if err.Retryable {
		t.Error("PARSE_ERROR should not be retryable")
	}
}

func TestParseError(t *testing.T) {
	cause := stderrors.New("zip: not a valid zip file")
	err := ParseError(cause)
	if err.Code != ErrCodeParse {
		t.Errorf("expected PARSE_ERROR, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", err.HTTPStatus)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be unwrappable")
	}
}

func TestMissingInput(t *testing.T) {
	err := MissingInput("api_key", "dataset")
	if err.Code != ErrCodeMissingInput {
		t.Errorf("expected MISSING_INPUT, got %s", err.Code)
	}
	fields := err.MissingFields()
	if len(fields) != 2 || fields[0] != "api_key" || fields[1] != "dataset" {
		t.Errorf("unexpected fields: %v", fields)
	}
	if !strings.Contains(err.Message, "API key") {
		t.Errorf("expected standing warning text, got %q", err.Message)
	}
}

func TestMissingFields_OtherCode(t *testing.T) {
	if fields := Validation("bad").MissingFields(); fields != nil {
		t.Errorf("expected nil fields, got %v", fields)
	}
}

func TestStageFailure(t *testing.T) {
	cause := stderrors.New("HTTP 401")
	err := StageFailure("analyze", "analyst", 2, cause)
	if err.Code != ErrCodeStageFailed {
		t.Errorf("expected STAGE_FAILED, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", err.HTTPStatus)
	}
	if err.Details["task"] != "analyze" || err.Details["stage"] != "analyst" || err.Details["position"] != 2 {
		t.Errorf("unexpected details: %v", err.Details)
	}
	if !strings.Contains(err.Message, "step 2") {
		t.Errorf("expected position in message, got %q", err.Message)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be unwrappable")
	}
}

func TestAppError_Error(t *testing.T) {
	err := Validation("bad query")
	if got := err.Error(); got != "INVALID_INPUT: bad query" {
		t.Errorf("unexpected Error(): %q", got)
	}
	err = Internal(fmt.Errorf("boom"))
	if !strings.Contains(err.Error(), "cause: boom") {
		t.Errorf("expected cause in Error(), got %q", err.Error())
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("analyze: %w", MissingInput("dataset"))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError through wrapping")
	}
	if appErr.Code != ErrCodeMissingInput {
		t.Errorf("expected MISSING_INPUT, got %s", appErr.Code)
	}
	if !HasCode(wrapped, ErrCodeMissingInput) {
		t.Error("HasCode should match wrapped code")
	}
	if HasCode(stderrors.New("plain"), ErrCodeMissingInput) {
		t.Error("HasCode should be false for plain errors")
	}
}

func TestToResponse(t *testing.T) {
	resp := StageFailure("process", "processor", 1, nil).ToResponse()
	if resp.Error.Code != ErrCodeStageFailed {
		t.Errorf("expected STAGE_FAILED, got %s", resp.Error.Code)
	}
	if resp.Error.Details["stage"] != "processor" {
		t.Errorf("expected stage detail, got %v", resp.Error.Details)
	}
}

func TestSummary(t *testing.T) {
	if got := Conflict("busy").Summary(); got != "busy" {
		t.Errorf("unexpected summary %q", got)
	}
	got := ParseError(stderrors.New("zip: not a valid zip file")).Summary()
	if !strings.HasSuffix(got, "zip: not a valid zip file") {
		t.Errorf("expected cause in summary, got %q", got)
	}
}
