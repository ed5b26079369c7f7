package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cctk-dev/cctk/internal/transcript"
)

// maxChunkText caps the text stored per chunk so a single enormous paste
// does not bloat the index.
const maxChunkText = 8 * 1024

type SessionMeta struct {
	SessionKey string
	FilePath   string
	RepoCwd    string
	CreatedAt  string
	UpdatedAt  string
	Summary    string
	EntryCount int
	ErrorCount int
	Mtime      int64
	Size       int64
}

type Chunk struct {
	ChunkID    int
	Ts         string
	Role       string
	Kind       string
	Text       string
	LineNumber int
}

type SessionData struct {
	Meta   SessionMeta
	Chunks []Chunk
}

// SessionKeyFor derives a stable key from the transcript path relative to
// the projects root.
func SessionKeyFor(claudeRoot, path string) string {
	rel, err := filepath.Rel(claudeRoot, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, ".jsonl")
	return filepath.ToSlash(rel)
}

// BuildSession parses a transcript file and derives the session metadata
// and searchable chunks. Lines that fail to parse are counted but do not
// abort the build.
func BuildSession(claudeRoot, path string, mtime, size int64) (*SessionData, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	res := transcript.ParseWithRaw(string(content))

	data := &SessionData{
		Meta: SessionMeta{
			SessionKey: SessionKeyFor(claudeRoot, path),
			FilePath:   path,
			EntryCount: len(res.Entries),
			ErrorCount: len(res.Errors),
			Mtime:      mtime,
			Size:       size,
		},
	}

	for _, re := range res.Entries {
		switch e := re.Entry.(type) {
		case *transcript.SummaryEntry:
			if data.Meta.Summary == "" {
				data.Meta.Summary = e.Summary
			}
		case *transcript.UserEntry:
			data.noteEnvelope(e.Cwd, e.Timestamp)
			if e.Message == nil {
				continue
			}
			if text := e.Message.Content().AsText(); text != "" {
				data.addChunk(e.Timestamp, "user", "text", text, re.Line)
			}
		case *transcript.AssistantEntry:
			data.noteEnvelope(e.Cwd, e.Timestamp)
			if e.Message == nil {
				continue
			}
			am, ok := e.Message.(*transcript.AssistantMessage)
			if !ok {
				continue
			}
			for _, thinking := range assistantThinking(am) {
				data.addChunk(e.Timestamp, "assistant", "thinking", thinking, re.Line)
			}
			if text := am.Content().AsText(); text != "" {
				data.addChunk(e.Timestamp, "assistant", "text", text, re.Line)
			}
		case *transcript.SystemEntry:
			data.noteEnvelope(e.Cwd, e.Timestamp)
		}
	}

	return data, nil
}

func (d *SessionData) noteEnvelope(cwd, ts string) {
	if d.Meta.RepoCwd == "" && cwd != "" {
		d.Meta.RepoCwd = cwd
	}
	if ts == "" {
		return
	}
	if d.Meta.CreatedAt == "" || ts < d.Meta.CreatedAt {
		d.Meta.CreatedAt = ts
	}
	if ts > d.Meta.UpdatedAt {
		d.Meta.UpdatedAt = ts
	}
}

func (d *SessionData) addChunk(ts, role, kind, text string, line int) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if len(text) > maxChunkText {
		text = text[:maxChunkText]
	}
	d.Chunks = append(d.Chunks, Chunk{
		ChunkID:    len(d.Chunks),
		Ts:         ts,
		Role:       role,
		Kind:       kind,
		Text:       text,
		LineNumber: line,
	})
}

func assistantThinking(am *transcript.AssistantMessage) []string {
	var out []string
	if am.Thinking != nil && strings.TrimSpace(*am.Thinking) != "" {
		out = append(out, *am.Thinking)
	}
	if c := am.Content(); c != nil {
		for _, b := range c.Blocks() {
			if tb, ok := b.(*transcript.ThinkingBlock); ok && strings.TrimSpace(tb.Thinking) != "" {
				out = append(out, tb.Thinking)
			}
		}
	}
	return out
}
