package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/hauswerk/property-service/internal/dtos"
	"github.com/hauswerk/property-service/internal/utils"
)

const extractionPrompt = `You are a document parser that extracts property information from declaration of division documents (Teilungserklärung) and similar property documents.

Extract the data and return it by calling extract_property_data.

If any field cannot be determined from the document, use reasonable defaults:
- For managementType, default to "WEG" if it's a condominium/apartment building
- For missing names, use "Unknown"
- For missing addresses, extract what's available
- For units, extract all individual units mentioned with their details
- For coOwnershipShare, if given as MEA (Miteigentumsanteile), convert to decimal
- For constructionYear, if not found, use the current year`

// ExtractionService wraps the OpenAI client. If client is nil (no API
// key configured), extraction is unavailable.
type ExtractionService struct {
	client *openai.Client
	files  *FileService
}

func NewExtractionService(apiKey string, files *FileService) *ExtractionService {
	if apiKey == "" {
		return &ExtractionService{client: nil, files: files}
	}
	c := openai.NewClient(option.WithAPIKey(apiKey))
	return &ExtractionService{client: &c, files: files}
}

// Extract reads a stored declaration document and asks the model for a
// best-effort structured payload. A reply that cannot be parsed is an
// extraction failure, distinct from a validation failure; the caller's
// draft state is unaffected either way.
func (s *ExtractionService) Extract(ctx context.Context, filename string) (*dtos.ExtractedProperty, error) {
	data, err := s.files.Read(filename)
	if err != nil {
		return nil, err
	}
	if s.client == nil {
		return nil, fmt.Errorf("%w: no OpenAI API key configured", utils.ErrExtractionFailed)
	}

	mimeType := "application/octet-stream"
	if strings.ToLower(filepath.Ext(filename)) == ".pdf" {
		mimeType = "application/pdf"
	}
	b64 := base64.StdEncoding.EncodeToString(data)

	unitSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"unitNumber":       map[string]string{"type": "string"},
			"type":             map[string]any{"type": "string", "enum": []string{"Apartment", "Office", "Garden", "Parking"}},
			"floor":            map[string]string{"type": "integer"},
			"entrance":         map[string]string{"type": "string"},
			"size":             map[string]string{"type": "number"},
			"coOwnershipShare": map[string]string{"type": "number"},
			"constructionYear": map[string]string{"type": "integer"},
			"rooms":            map[string]string{"type": "integer"},
		},
		"required": []string{
			"unitNumber", "type", "floor", "entrance",
			"size", "coOwnershipShare", "constructionYear", "rooms",
		},
		"additionalProperties": false,
	}
	buildingSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"street":      map[string]string{"type": "string"},
			"houseNumber": map[string]string{"type": "string"},
			"city":        map[string]string{"type": "string"},
			"postalCode":  map[string]string{"type": "string"},
			"country":     map[string]string{"type": "string"},
			"units":       map[string]any{"type": "array", "items": unitSchema},
		},
		"required":             []string{"street", "houseNumber", "city", "postalCode", "country", "units"},
		"additionalProperties": false,
	}
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"managementType":  map[string]any{"type": "string", "enum": []string{"WEG", "MV"}},
			"name":            map[string]string{"type": "string"},
			"propertyManager": map[string]string{"type": "string"},
			"accountant":      map[string]string{"type": "string"},
			"buildings":       map[string]any{"type": "array", "items": buildingSchema},
		},
		"required":             []string{"managementType", "name", "propertyManager", "accountant", "buildings"},
		"additionalProperties": false,
	}

	fn := shared.FunctionDefinitionParam{
		Name:        "extract_property_data",
		Description: openai.String("Return the property data found in the declaration document."),
		Strict:      openai.Bool(true),
		Parameters:  schema,
	}

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModelGPT4o,
		Messages: []openai.ChatCompletionMessageParamUnion{{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
							Filename: openai.String(filename),
							FileData: openai.String("data:" + mimeType + ";base64," + b64),
						}),
						openai.TextContentPart(extractionPrompt),
					},
				},
			},
		}},
		Tools: []openai.ChatCompletionToolParam{{
			Function: fn,
		}},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{
					Name: "extract_property_data",
				},
			},
		},
	}

	resp, err := s.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrExtractionFailed, err)
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return nil, fmt.Errorf("%w: no function call returned", utils.ErrExtractionFailed)
	}

	var out dtos.ExtractedProperty
	if err := json.Unmarshal(
		[]byte(resp.Choices[0].Message.ToolCalls[0].Function.Arguments),
		&out,
	); err != nil {
		return nil, fmt.Errorf("%w: unmarshal extraction result: %v", utils.ErrExtractionFailed, err)
	}

	return &out, nil
}
