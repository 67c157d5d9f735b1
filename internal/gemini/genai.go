package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/models"
)

// GenAIClient implements Client on google.golang.org/genai. A fresh SDK
// client is built per call because the API key can differ per request
// (clients may bring their own key).
type GenAIClient struct {
	imageModel    string
	textModel     string
	defaultAPIKey string
}

// NewGenAIClient creates the generator. defaultAPIKey may be empty, in which
// case every request must carry its own key.
func NewGenAIClient(imageModel, textModel, defaultAPIKey string) *GenAIClient {
	return &GenAIClient{
		imageModel:    imageModel,
		textModel:     textModel,
		defaultAPIKey: defaultAPIKey,
	}
}

func (c *GenAIClient) clientFor(ctx context.Context, apiKey string) (*genai.Client, error) {
	key := apiKey
	if key == "" {
		key = c.defaultAPIKey
	}
	if key == "" {
		return nil, errors.New("no Gemini API key configured")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
}

const doodleImagePrompt = "Transform this rough doodle into a polished, vibrant " +
	"battle-creature illustration on a clean background. Keep the doodle's " +
	"silhouette and distinctive features recognizable."

// ImageFromDoodle runs the image model with the doodle as inline data.
func (c *GenAIClient) ImageFromDoodle(ctx context.Context, doodleB64, apiKey string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(doodleB64)
	if err != nil {
		return "", newGenerationError("image_from_doodle", fmt.Errorf("doodle is not valid base64: %w", err))
	}

	client, err := c.clientFor(ctx, apiKey)
	if err != nil {
		return "", newGenerationError("image_from_doodle", err)
	}

	parts := []*genai.Part{
		{Text: doodleImagePrompt},
		{InlineData: &genai.Blob{MIMEType: "image/png", Data: data}},
	}
	resp, err := client.Models.GenerateContent(ctx, c.imageModel,
		[]*genai.Content{{Parts: parts}},
		&genai.GenerateContentConfig{ResponseModalities: []string{"IMAGE", "TEXT"}},
	)
	if err != nil {
		return "", newGenerationError("image_from_doodle", err)
	}

	img, ok := firstInlineImage(resp)
	if !ok {
		return "", newGenerationError("image_from_doodle", errors.New("model returned no image data"))
	}
	return base64.StdEncoding.EncodeToString(img), nil
}

// CreatureMeta asks the text model for JSON metadata grounded on the
// reference image produced in the previous stage.
func (c *GenAIClient) CreatureMeta(ctx context.Context, prompt, refImageB64, apiKey string) (*Meta, error) {
	client, err := c.clientFor(ctx, apiKey)
	if err != nil {
		return nil, newGenerationError("creature_meta", err)
	}

	parts := []*genai.Part{{Text: prompt}}
	if refImageB64 != "" {
		if data, err := base64.StdEncoding.DecodeString(refImageB64); err == nil {
			parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: data}})
		}
	}

	resp, err := client.Models.GenerateContent(ctx, c.textModel,
		[]*genai.Content{{Parts: parts}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, newGenerationError("creature_meta", err)
	}

	text := strings.TrimSpace(resp.Text())
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var meta Meta
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &meta); err != nil {
		return nil, newGenerationError("creature_meta", fmt.Errorf("model returned unparseable metadata: %w", err))
	}
	return &meta, nil
}

// ActionImage renders the creature performing one of its powers.
func (c *GenAIClient) ActionImage(ctx context.Context, ref ActionReference, power models.Power, apiKey string) (string, error) {
	client, err := c.clientFor(ctx, apiKey)
	if err != nil {
		return "", newGenerationError("action_image", err)
	}

	prompt := fmt.Sprintf(
		"Using the reference image, show %s (a %s type creature, %s) performing the move %q",
		ref.Name, ref.Type, ref.Characteristics, power.Name)
	if power.Description != "" {
		prompt += ": " + power.Description
	}
	prompt += ". Dynamic action pose, same art style as the reference."

	parts := []*genai.Part{{Text: prompt}}
	if data, err := base64.StdEncoding.DecodeString(ref.ImageB64); err == nil && len(data) > 0 {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: data}})
	}

	resp, err := client.Models.GenerateContent(ctx, c.imageModel,
		[]*genai.Content{{Parts: parts}},
		&genai.GenerateContentConfig{ResponseModalities: []string{"IMAGE", "TEXT"}},
	)
	if err != nil {
		return "", newGenerationError("action_image", err)
	}

	img, ok := firstInlineImage(resp)
	if !ok {
		return "", newGenerationError("action_image", errors.New("model returned no image data"))
	}
	return base64.StdEncoding.EncodeToString(img), nil
}

// firstInlineImage scans candidates for the first inline image blob.
func firstInlineImage(resp *genai.GenerateContentResponse) ([]byte, bool) {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, true
			}
		}
	}
	return nil, false
}
