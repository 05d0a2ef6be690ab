package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/healthguard/internal/safety"
)

type fakeConverse struct {
	input *bedrockruntime.ConverseInput
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (f *fakeConverse) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.input = params
	return f.out, f.err
}

func textOutput(parts ...string) *bedrockruntime.ConverseOutput {
	blocks := make([]brtypes.ContentBlock, 0, len(parts))
	for _, p := range parts {
		blocks = append(blocks, &brtypes.ContentBlockMemberText{Value: p})
	}
	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{Value: brtypes.Message{
			Role:    brtypes.ConversationRoleAssistant,
			Content: blocks,
		}},
	}
}

func TestBedrockAssistant_BuildsConversation(t *testing.T) {
	api := &fakeConverse{out: textOutput("Staying hydrated ", "helps with headaches. ")}
	assistant := NewBedrockAssistant(api, "anthropic.claude-3-haiku", 256)

	history := []Message{
		{Role: RoleUser, Content: "How much water should I drink?"},
		{Role: RoleAssistant, Content: "Most adults need around 2 litres a day."},
		{Role: RoleUser, Content: "   "},
	}
	reply, err := assistant.Reply(context.Background(), history, "Does that help headaches?")
	require.NoError(t, err)
	assert.Equal(t, "Staying hydrated helps with headaches.", reply)

	require.NotNil(t, api.input)
	assert.Equal(t, "anthropic.claude-3-haiku", aws.ToString(api.input.ModelId))
	require.Len(t, api.input.System, 1)
	require.Len(t, api.input.Messages, 3, "blank turns are dropped")
	assert.Equal(t, brtypes.ConversationRoleUser, api.input.Messages[0].Role)
	assert.Equal(t, brtypes.ConversationRoleAssistant, api.input.Messages[1].Role)
	last := api.input.Messages[2].Content[0].(*brtypes.ContentBlockMemberText)
	assert.Equal(t, "Does that help headaches?", last.Value)
	require.NotNil(t, api.input.InferenceConfig)
	assert.Equal(t, int32(256), aws.ToInt32(api.input.InferenceConfig.MaxTokens))
}

func TestBedrockAssistant_Errors(t *testing.T) {
	_, err := NewBedrockAssistant(&fakeConverse{}, "", 0).Reply(context.Background(), nil, "hi")
	assert.Error(t, err)

	_, err = NewBedrockAssistant(&fakeConverse{err: errors.New("throttled")}, "model", 0).Reply(context.Background(), nil, "hi")
	assert.Error(t, err)

	_, err = NewBedrockAssistant(&fakeConverse{out: textOutput("  ")}, "model", 0).Reply(context.Background(), nil, "hi")
	assert.Error(t, err)

	_, err = NewBedrockAssistant(&fakeConverse{}, "model", 0).Reply(context.Background(), []Message{{Role: "system", Content: "x"}}, "hi")
	assert.Error(t, err)
}

func TestBedrockAssistant_NilAPIPanics(t *testing.T) {
	assert.Panics(t, func() { NewBedrockAssistant(nil, "model", 0) })
}

func TestStubAssistantReplyIsSafe(t *testing.T) {
	reply, err := StubAssistant{}.Reply(context.Background(), nil, "hello")
	require.NoError(t, err)
	assert.True(t, safety.ValidateAIResponse(reply).Safe)
}
