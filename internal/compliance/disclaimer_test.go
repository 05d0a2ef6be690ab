package compliance

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDisclaimerLevel(t *testing.T) {
	assert.Equal(t, DisclaimerNone, ParseDisclaimerLevel("none"))
	assert.Equal(t, DisclaimerShort, ParseDisclaimerLevel(" SHORT "))
	assert.Equal(t, DisclaimerFull, ParseDisclaimerLevel("full"))
	assert.Equal(t, DisclaimerStandard, ParseDisclaimerLevel(""))
	assert.Equal(t, DisclaimerStandard, ParseDisclaimerLevel("verbose"))
}

func TestDisclaimerService_AddDisclaimer(t *testing.T) {
	ctx := context.Background()

	svc := NewDisclaimerService(nil, DisclaimerConfig{})
	got := svc.AddDisclaimer(ctx, "Try a consistent bedtime.  ", DisclaimerOptions{})
	assert.Equal(t, "Try a consistent bedtime.\n\n"+disclaimerStandardText, got)

	again := svc.AddDisclaimer(ctx, got, DisclaimerOptions{})
	assert.Equal(t, got, again, "disclaimer must not be appended twice")
}

func TestDisclaimerService_Levels(t *testing.T) {
	ctx := context.Background()

	none := NewDisclaimerService(nil, DisclaimerConfig{Level: DisclaimerNone})
	assert.Equal(t, "hello", none.AddDisclaimer(ctx, "hello", DisclaimerOptions{}))

	short := NewDisclaimerService(nil, DisclaimerConfig{Level: DisclaimerShort})
	assert.True(t, strings.HasSuffix(short.AddDisclaimer(ctx, "hello", DisclaimerOptions{}), disclaimerShortText))

	custom := NewDisclaimerService(nil, DisclaimerConfig{Level: DisclaimerFull, CustomText: "Ask your doctor."})
	assert.Equal(t, "Ask your doctor.", custom.Text())
}

func TestDisclaimerService_FirstMessageOnly(t *testing.T) {
	svc := NewDisclaimerService(nil, DisclaimerConfig{Level: DisclaimerShort, FirstMessageOnly: true})
	ctx := context.Background()

	assert.Equal(t, "hi", svc.AddDisclaimer(ctx, "hi", DisclaimerOptions{IsFirstMessage: false}))
	assert.Contains(t, svc.AddDisclaimer(ctx, "hi", DisclaimerOptions{IsFirstMessage: true}), disclaimerShortText)
}

func TestDisclaimerService_AuditsWhenUserKnown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO safety_audit_events").WillReturnResult(sqlmock.NewResult(1, 1))

	svc := NewDisclaimerService(NewAuditService(db), DisclaimerConfig{Level: DisclaimerStandard})
	svc.AddDisclaimer(context.Background(), "hello", DisclaimerOptions{UserID: "user-1", ConversationID: "conv-1"})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisclaimerService_NilPassThrough(t *testing.T) {
	var svc *DisclaimerService
	assert.Equal(t, "hello", svc.AddDisclaimer(context.Background(), "hello", DisclaimerOptions{}))
}
