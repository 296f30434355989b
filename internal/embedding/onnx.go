// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package embedding

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// ONNX graph tensor names for BERT-style sentence encoders.
const (
	inputIDsName      = "input_ids"
	attentionMaskName = "attention_mask"
	tokenTypeIDsName  = "token_type_ids"
	hiddenStateName   = "last_hidden_state"
)

// ortEnvMu guards the process-wide onnxruntime environment.
var ortEnvMu sync.Mutex

// ONNXOptions configures a local sentence-transformer model.
type ONNXOptions struct {
	LibraryPath   string
	ModelPath     string
	TokenizerPath string
	ModelID       string
	Dimension     int
	MaxSeqLen     int
}

// ONNXModel runs a sentence-transformer exported to ONNX and mean-pools the
// last hidden state into a unit vector.
type ONNXModel struct {
	opts ONNXOptions

	mu      sync.Mutex // ORT sessions are not re-entrant
	tk      *tokenizer.Tokenizer
	session *ort.DynamicAdvancedSession
}

// NewONNXModel loads the tokenizer and creates an inference session.
// This is expensive; callers load once and share the handle.
func NewONNXModel(opts ONNXOptions) (*ONNXModel, error) {
	if opts.ModelID == "" {
		return nil, errors.New("onnx: model id is required")
	}
	if opts.Dimension <= 0 {
		return nil, fmt.Errorf("onnx: dimension must be positive, got %d", opts.Dimension)
	}
	if opts.MaxSeqLen <= 0 {
		opts.MaxSeqLen = 256
	}
	for _, p := range []string{opts.ModelPath, opts.TokenizerPath} {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("onnx: %w", err)
		}
	}

	if err := initORT(opts.LibraryPath); err != nil {
		return nil, err
	}

	tk, err := pretrained.FromFile(opts.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: load tokenizer: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(opts.ModelPath,
		[]string{inputIDsName, attentionMaskName, tokenTypeIDsName},
		[]string{hiddenStateName}, nil)
	if err != nil {
		return nil, fmt.Errorf("onnx: create session: %w", err)
	}

	return &ONNXModel{opts: opts, tk: tk, session: session}, nil
}

func initORT(libraryPath string) error {
	ortEnvMu.Lock()
	defer ortEnvMu.Unlock()

	if ort.IsInitialized() {
		return nil
	}
	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("onnx: initialize runtime: %w", err)
	}
	return nil
}

// ModelID returns the configured model identifier.
func (m *ONNXModel) ModelID() string { return m.opts.ModelID }

// Dimension returns the hidden size.
func (m *ONNXModel) Dimension() int { return m.opts.Dimension }

// Provider returns "onnx".
func (m *ONNXModel) Provider() string { return "onnx" }

// Embed tokenizes text, runs the encoder, and returns the mean-pooled,
// L2-normalized sentence vector.
func (m *ONNXModel) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	enc, err := m.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("onnx: tokenize: %w", err)
	}
	mask, types := enc.AttentionMask, enc.TypeIds
	if len(mask) != len(enc.Ids) {
		mask = make([]int, len(enc.Ids))
		for i := range mask {
			mask[i] = 1
		}
	}
	if len(types) != len(enc.Ids) {
		types = make([]int, len(enc.Ids))
	}
	ids, mask, types := truncate(enc.Ids, mask, types, m.opts.MaxSeqLen)
	seqLen := int64(len(ids))
	if seqLen == 0 {
		return nil, errors.New("onnx: tokenizer produced no tokens")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, ErrClosed
	}

	shape := ort.NewShape(1, seqLen)
	idsT, err := ort.NewTensor(shape, toInt64(ids))
	if err != nil {
		return nil, fmt.Errorf("onnx: input_ids tensor: %w", err)
	}
	defer idsT.Destroy()
	maskT, err := ort.NewTensor(shape, toInt64(mask))
	if err != nil {
		return nil, fmt.Errorf("onnx: attention_mask tensor: %w", err)
	}
	defer maskT.Destroy()
	typesT, err := ort.NewTensor(shape, toInt64(types))
	if err != nil {
		return nil, fmt.Errorf("onnx: token_type_ids tensor: %w", err)
	}
	defer typesT.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, seqLen, int64(m.opts.Dimension)))
	if err != nil {
		return nil, fmt.Errorf("onnx: output tensor: %w", err)
	}
	defer out.Destroy()

	if err := m.session.Run([]ort.Value{idsT, maskT, typesT}, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("onnx: run: %w", err)
	}

	return meanPool(out.GetData(), mask, m.opts.Dimension), nil
}

// Close releases the session. The shared runtime environment stays up.
func (m *ONNXModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	return err
}

// truncate limits a sequence to maxLen tokens, keeping the final special token.
func truncate(ids, mask, types []int, maxLen int) ([]int, []int, []int) {
	if len(ids) <= maxLen {
		return ids, mask, types
	}
	last := len(ids) - 1
	trim := func(s []int) []int {
		out := make([]int, maxLen)
		copy(out, s[:maxLen-1])
		out[maxLen-1] = s[last]
		return out
	}
	return trim(ids), trim(mask), trim(types)
}

// meanPool averages token vectors where mask is set and L2-normalizes the result.
func meanPool(hidden []float32, mask []int, dim int) []float32 {
	vec := make([]float32, dim)
	var count float32
	for t, m := range mask {
		if m == 0 {
			continue
		}
		row := hidden[t*dim : (t+1)*dim]
		for j, v := range row {
			vec[j] += v
		}
		count++
	}
	if count > 0 {
		for j := range vec {
			vec[j] /= count
		}
	}
	l2Normalize(vec)
	return vec
}

func toInt64(s []int) []int64 {
	out := make([]int64, len(s))
	for i, v := range s {
		out[i] = int64(v)
	}
	return out
}

var _ Model = (*ONNXModel)(nil)
