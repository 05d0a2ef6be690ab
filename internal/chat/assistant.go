package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// Assistant produces a reply to a message that already passed the safety gate.
// history holds earlier allowed turns, oldest first.
type Assistant interface {
	Reply(ctx context.Context, history []Message, message string) (string, error)
}

const systemPrompt = `You are HealthGuard, a health information assistant.
You share general wellness information and help people understand when to seek care.
You are not a doctor. Never diagnose a condition, never tell someone which condition they have,
and never give medication names with doses or dosing schedules.
When a question needs a diagnosis, a prescription or a dosage, say that a healthcare professional
should answer it and suggest who to contact.
If the user describes something that sounds urgent, tell them to call 911 or go to the nearest emergency room.
Keep answers short, plain and kind.`

type bedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockAssistant answers through the Bedrock Converse API.
type BedrockAssistant struct {
	api       bedrockConverseAPI
	modelID   string
	maxTokens int32
}

func NewBedrockAssistant(api bedrockConverseAPI, modelID string, maxTokens int) *BedrockAssistant {
	if api == nil {
		panic("chat: bedrock converse client cannot be nil")
	}
	return &BedrockAssistant{api: api, modelID: modelID, maxTokens: int32(maxTokens)}
}

func (a *BedrockAssistant) Reply(ctx context.Context, history []Message, message string) (string, error) {
	if strings.TrimSpace(a.modelID) == "" {
		return "", errors.New("chat: bedrock model id is required")
	}

	messages := make([]brtypes.Message, 0, len(history)+1)
	for _, msg := range history {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		var role brtypes.ConversationRole
		switch msg.Role {
		case RoleUser:
			role = brtypes.ConversationRoleUser
		case RoleAssistant:
			role = brtypes.ConversationRoleAssistant
		default:
			return "", fmt.Errorf("chat: unsupported role %q", msg.Role)
		}
		messages = append(messages, brtypes.Message{
			Role:    role,
			Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: content}},
		})
	}
	messages = append(messages, brtypes.Message{
		Role:    brtypes.ConversationRoleUser,
		Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: strings.TrimSpace(message)}},
	})

	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(a.modelID),
		System:   []brtypes.SystemContentBlock{&brtypes.SystemContentBlockMemberText{Value: systemPrompt}},
		Messages: messages,
	}
	if a.maxTokens > 0 {
		input.InferenceConfig = &brtypes.InferenceConfiguration{MaxTokens: aws.Int32(a.maxTokens)}
	}

	out, err := a.api.Converse(ctx, input)
	if err != nil {
		return "", err
	}
	return extractText(out)
}

func extractText(out *bedrockruntime.ConverseOutput) (string, error) {
	if out == nil {
		return "", errors.New("chat: bedrock response is nil")
	}
	msgOut, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return "", errors.New("chat: bedrock response did not include a message output")
	}

	var builder strings.Builder
	for _, block := range msgOut.Value.Content {
		if textBlock, ok := block.(*brtypes.ContentBlockMemberText); ok {
			builder.WriteString(textBlock.Value)
		}
	}
	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", errors.New("chat: bedrock response contained no text content blocks")
	}
	return text, nil
}

// StubAssistant is used when no model is configured. It never diagnoses or doses.
type StubAssistant struct{}

func (StubAssistant) Reply(context.Context, []Message, string) (string, error) {
	return "Thanks for sharing. I can offer general health information, but I'm not able to " +
		"connect to the assistant model right now. If your symptoms change or worry you, " +
		"please contact a healthcare professional.", nil
}
