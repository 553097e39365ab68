// Package modelinfo is the static capability registry of Ollama models.
//
// Names are matched exactly first and then without their ":tag" suffix, so
// "llama3.1", "llama3.1:8b" and "llama3.1:latest" share one entry.
package modelinfo

import (
	"sort"
	"strings"

	"github.com/kbukum/chatkit/chat"
	"github.com/kbukum/chatkit/errors"
)

var registry = map[string]chat.ModelInfo{
	"llama3":          {Family: chat.FamilyLlama, JSONOutput: true, TokenLimit: 8192},
	"llama3.1":        {Family: chat.FamilyLlama, FunctionCalling: true, JSONOutput: true, TokenLimit: 131072},
	"llama3.2":        {Family: chat.FamilyLlama, FunctionCalling: true, JSONOutput: true, TokenLimit: 131072},
	"llama3.2-vision": {Family: chat.FamilyLlama, Vision: true, JSONOutput: true, TokenLimit: 131072},
	"llama3.3":        {Family: chat.FamilyLlama, FunctionCalling: true, JSONOutput: true, TokenLimit: 131072},
	"llama4":          {Family: chat.FamilyLlama, Vision: true, FunctionCalling: true, JSONOutput: true, TokenLimit: 1048576},
	"codellama":       {Family: chat.FamilyLlama, JSONOutput: true, TokenLimit: 16384},
	"llava":           {Family: chat.FamilyLlava, Vision: true, JSONOutput: true, TokenLimit: 32768},
	"llava-llama3":    {Family: chat.FamilyLlava, Vision: true, JSONOutput: true, TokenLimit: 8192},
	"bakllava":        {Family: chat.FamilyLlava, Vision: true, JSONOutput: true, TokenLimit: 32768},
	"mistral":         {Family: chat.FamilyMistral, FunctionCalling: true, JSONOutput: true, TokenLimit: 32768},
	"mistral-nemo":    {Family: chat.FamilyMistral, FunctionCalling: true, JSONOutput: true, TokenLimit: 131072},
	"mistral-small":   {Family: chat.FamilyMistral, FunctionCalling: true, JSONOutput: true, TokenLimit: 32768},
	"mixtral":         {Family: chat.FamilyMistral, FunctionCalling: true, JSONOutput: true, TokenLimit: 32768},
	"qwen2":           {Family: chat.FamilyQwen, FunctionCalling: true, JSONOutput: true, TokenLimit: 32768},
	"qwen2.5":         {Family: chat.FamilyQwen, FunctionCalling: true, JSONOutput: true, TokenLimit: 32768},
	"qwen2.5-coder":   {Family: chat.FamilyQwen, FunctionCalling: true, JSONOutput: true, TokenLimit: 32768},
	"qwen2.5vl":       {Family: chat.FamilyQwen, Vision: true, JSONOutput: true, TokenLimit: 128000},
	"qwen3":           {Family: chat.FamilyQwen, FunctionCalling: true, JSONOutput: true, TokenLimit: 40960},
	"gemma":           {Family: chat.FamilyGemma, JSONOutput: true, TokenLimit: 8192},
	"gemma2":          {Family: chat.FamilyGemma, JSONOutput: true, TokenLimit: 8192},
	"gemma3":          {Family: chat.FamilyGemma, Vision: true, JSONOutput: true, TokenLimit: 131072},
	"phi3":            {Family: chat.FamilyPhi, JSONOutput: true, TokenLimit: 131072},
	"phi3.5":          {Family: chat.FamilyPhi, JSONOutput: true, TokenLimit: 131072},
	"phi4":            {Family: chat.FamilyPhi, JSONOutput: true, TokenLimit: 16384},
	"phi4-mini":       {Family: chat.FamilyPhi, FunctionCalling: true, JSONOutput: true, TokenLimit: 131072},
	"deepseek-r1":     {Family: chat.FamilyDeepSeek, JSONOutput: true, TokenLimit: 131072},
	"deepseek-coder":  {Family: chat.FamilyDeepSeek, JSONOutput: true, TokenLimit: 16384},
	"command-r":       {Family: chat.FamilyUnknown, FunctionCalling: true, JSONOutput: true, TokenLimit: 131072},
	"nemotron":        {Family: chat.FamilyLlama, FunctionCalling: true, JSONOutput: true, TokenLimit: 131072},
}

// ResolveModel returns the registry key that model maps to, or model itself
// when nothing matches.
func ResolveModel(model string) string {
	if _, ok := registry[model]; ok {
		return model
	}
	base := model
	if i := strings.LastIndex(base, ":"); i >= 0 {
		base = base[:i]
	}
	if _, ok := registry[base]; ok {
		return base
	}
	return model
}

// Info returns the capabilities of model.
func Info(model string) (chat.ModelInfo, error) {
	info, ok := registry[ResolveModel(model)]
	if !ok {
		return chat.ModelInfo{}, errors.UnknownModel(model)
	}
	return info, nil
}

// TokenLimit returns the context window of model.
func TokenLimit(model string) (int, error) {
	info, err := Info(model)
	if err != nil {
		return 0, err
	}
	return info.TokenLimit, nil
}

// Models lists the registered model names in sorted order.
func Models() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
