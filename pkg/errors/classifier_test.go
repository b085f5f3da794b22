package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/adpulse/gateway/pkg/errors"
	"github.com/adpulse/gateway/pkg/testutil"
)

func TestClassifyMapsSentinels(t *testing.T) {
	classifier := pkgerrors.NewErrorClassifier(testutil.DiscardLogger())

	cases := []struct {
		name       string
		err        error
		wantClass  pkgerrors.ErrorClass
		wantReason string
		wantStatus int
	}{
		{"authentication", fmt.Errorf("%w: bad token", pkgerrors.ErrAuthentication), pkgerrors.ClassAuthentication, "unauthorized", http.StatusUnauthorized},
		{"authorization", fmt.Errorf("%w: admin only", pkgerrors.ErrAuthorization), pkgerrors.ClassAuthorization, "forbidden", http.StatusForbidden},
		{"rate limit", pkgerrors.ErrRateLimit, pkgerrors.ClassRateLimit, "rate_limited", http.StatusTooManyRequests},
		{"validation", fmt.Errorf("%w: missing field", pkgerrors.ErrInvalidInput), pkgerrors.ClassValidation, "bad_request", http.StatusBadRequest},
		{"not found", pkgerrors.ErrNotFound, pkgerrors.ClassNotFound, "not_found", http.StatusNotFound},
		{"external", fmt.Errorf("%w: db gone", pkgerrors.ErrExternal), pkgerrors.ClassExternal, "internal_error", http.StatusInternalServerError},
		{"unknown", fmt.Errorf("something odd"), pkgerrors.ClassInternal, "internal_error", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			classified := classifier.Classify(tc.err, "test_op")
			assert.Equal(t, tc.wantClass, classified.Class)
			assert.Equal(t, tc.wantReason, classified.ReasonCode)
			assert.Equal(t, tc.wantStatus, pkgerrors.HTTPStatus(classified.Class))
		})
	}
}

func TestReasonCodeNeverContainsInternalDetail(t *testing.T) {
	classifier := pkgerrors.NewErrorClassifier(testutil.DiscardLogger())

	classified := classifier.Classify(fmt.Errorf("%w: password=hunter2", pkgerrors.ErrExternal), "test_op")

	assert.Equal(t, "internal_error", classified.ReasonCode)
	assert.NotContains(t, classified.ReasonCode, "hunter2")
}
