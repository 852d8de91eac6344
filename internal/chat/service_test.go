package chat

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSTT struct {
	text string
	err  error

	calls       int
	gotPath     string
	gotLanguage string
	pathExisted bool
}

func (f *fakeSTT) Transcribe(_ context.Context, path, language string) (string, error) {
	f.calls++
	f.gotPath = path
	f.gotLanguage = language
	if _, err := os.Stat(path); err == nil {
		f.pathExisted = true
	}
	return f.text, f.err
}

type fakeLLM struct {
	reply string
	err   error

	calls      int
	gotText    string
	gotHistory []Turn
}

func (f *fakeLLM) Generate(_ context.Context, userText string, history []Turn) (string, error) {
	f.calls++
	f.gotText = userText
	f.gotHistory = history
	return f.reply, f.err
}

type fakeTTS struct {
	audio []byte
	err   error

	calls   int
	gotText string
}

func (f *fakeTTS) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.calls++
	f.gotText = text
	return f.audio, f.err
}

func testLogger() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

func testRequest() Request {
	return Request{
		Audio:    bytes.NewReader([]byte("fake-audio-bytes")),
		Filename: "clip.mp3",
	}
}

func TestRespond_Success(t *testing.T) {
	stt := &fakeSTT{text: "hello there"}
	llm := &fakeLLM{reply: "General Kenobi!"}
	tts := &fakeTTS{audio: []byte("mp3-bytes")}
	svc := NewService(stt, llm, tts, testLogger())

	resp, err := svc.Respond(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "hello there", resp.UserTranscription)
	assert.Equal(t, "General Kenobi!", resp.BotResponseText)

	decoded, decErr := base64.StdEncoding.DecodeString(resp.BotResponseAudio)
	require.NoError(t, decErr)
	assert.Equal(t, []byte("mp3-bytes"), decoded)

	// upload was materialized with the original extension, seen by the
	// transcriber, and removed afterwards
	assert.True(t, stt.pathExisted)
	assert.Equal(t, ".mp3", filepath.Ext(stt.gotPath))
	_, statErr := os.Stat(stt.gotPath)
	assert.True(t, os.IsNotExist(statErr))

	assert.Equal(t, "General Kenobi!", tts.gotText)
}

func TestRespond_DefaultLanguage(t *testing.T) {
	stt := &fakeSTT{text: "hi"}
	svc := NewService(stt, &fakeLLM{reply: "hey"}, &fakeTTS{audio: []byte("a")}, testLogger())

	_, err := svc.Respond(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "en-US", stt.gotLanguage)
}

func TestRespond_LanguagePassedThrough(t *testing.T) {
	stt := &fakeSTT{text: "hi"}
	svc := NewService(stt, &fakeLLM{reply: "hey"}, &fakeTTS{audio: []byte("a")}, testLogger())

	req := testRequest()
	req.Language = "hi-IN"
	_, err := svc.Respond(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "hi-IN", stt.gotLanguage)
}

func TestRespond_TranscriptionFailure(t *testing.T) {
	stt := &fakeSTT{err: errors.New("unintelligible")}
	llm := &fakeLLM{}
	tts := &fakeTTS{}
	svc := NewService(stt, llm, tts, testLogger())

	_, err := svc.Respond(context.Background(), testRequest())

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, StageTranscription, f.Stage)
	assert.Equal(t, http.StatusBadRequest, f.Status)
	assert.Equal(t, "Failed to transcribe audio.", f.Detail)

	// later stages never ran
	assert.Zero(t, llm.calls)
	assert.Zero(t, tts.calls)

	// cleanup still happened
	_, statErr := os.Stat(stt.gotPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRespond_EmptyTranscription(t *testing.T) {
	svc := NewService(&fakeSTT{text: ""}, &fakeLLM{}, &fakeTTS{}, testLogger())

	_, err := svc.Respond(context.Background(), testRequest())

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, StageTranscription, f.Stage)
	assert.Equal(t, http.StatusBadRequest, f.Status)
}

func TestRespond_InvalidHistory(t *testing.T) {
	llm := &fakeLLM{}
	svc := NewService(&fakeSTT{text: "hi"}, llm, &fakeTTS{}, testLogger())

	req := testRequest()
	req.HistoryJSON = `[{"role": "user"}]`
	_, err := svc.Respond(context.Background(), req)

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, StageHistory, f.Stage)
	assert.Equal(t, http.StatusBadRequest, f.Status)
	assert.Contains(t, f.Detail, "Invalid history format:")

	// unvalidated history never reaches the dialogue stage
	assert.Zero(t, llm.calls)
}

func TestRespond_HistoryPassedThrough(t *testing.T) {
	llm := &fakeLLM{reply: "ok"}
	svc := NewService(&fakeSTT{text: "hi"}, llm, &fakeTTS{audio: []byte("a")}, testLogger())

	req := testRequest()
	req.HistoryJSON = `[{"role": "user", "parts": ["Hello"]}, {"role": "model", "parts": ["Hi there!"]}]`
	_, err := svc.Respond(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, llm.gotHistory, 2)
	assert.Equal(t, "Hello", llm.gotHistory[0].Parts[0])
	assert.Equal(t, "model", llm.gotHistory[1].Role)
	assert.Equal(t, "hi", llm.gotText)
}

func TestRespond_DialogueFailure(t *testing.T) {
	stt := &fakeSTT{text: "hi"}
	tts := &fakeTTS{}
	svc := NewService(stt, &fakeLLM{err: errors.New("backend down")}, tts, testLogger())

	_, err := svc.Respond(context.Background(), testRequest())

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, StageDialogue, f.Stage)
	assert.Equal(t, http.StatusInternalServerError, f.Status)
	assert.Equal(t, "Failed to generate response from language model.", f.Detail)
	assert.Zero(t, tts.calls)

	_, statErr := os.Stat(stt.gotPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRespond_SafetyBlockIsSuccess(t *testing.T) {
	// a blocked reply arrives as ordinary text from the adapter, so the
	// pipeline treats it as a normal success
	blocked := "I cannot respond to that due to safety guidelines (SAFETY)."
	svc := NewService(&fakeSTT{text: "hi"}, &fakeLLM{reply: blocked}, &fakeTTS{audio: []byte("a")}, testLogger())

	resp, err := svc.Respond(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, blocked, resp.BotResponseText)
}

func TestRespond_SynthesisFailure(t *testing.T) {
	stt := &fakeSTT{text: "hi"}
	svc := NewService(stt, &fakeLLM{reply: "hey"}, &fakeTTS{err: errors.New("status 500")}, testLogger())

	_, err := svc.Respond(context.Background(), testRequest())

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, StageSynthesis, f.Stage)
	assert.Equal(t, http.StatusInternalServerError, f.Status)
	assert.Equal(t, "Failed to convert response to speech.", f.Detail)

	_, statErr := os.Stat(stt.gotPath)
	assert.True(t, os.IsNotExist(statErr))
}
