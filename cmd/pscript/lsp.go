package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/mgomes/pscript/pscript"
)

var lspLiterals = []string{"false", "true"}

var primitiveNames = pscript.MustNewInterpreter(pscript.Config{}).PrimitiveNames()

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	docs   map[string]string
}

type lspHandler func(*lspServer, lspInboundMessage) []lspOutboundMessage

var lspHandlers = map[string]lspHandler{
	"initialize":              (*lspServer).initialize,
	"initialized":             nil,
	"exit":                    nil,
	"shutdown":                (*lspServer).shutdown,
	"textDocument/didOpen":    (*lspServer).didOpen,
	"textDocument/didChange":  (*lspServer).didChange,
	"textDocument/didClose":   (*lspServer).didClose,
	"textDocument/completion": (*lspServer).completion,
	"textDocument/hover":      (*lspServer).hover,
}

func runLSP() error {
	server := &lspServer{
		reader: bufio.NewReader(os.Stdin),
		writer: bufio.NewWriter(os.Stdout),
		docs:   make(map[string]string),
	}
	return server.serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		var incoming lspInboundMessage
		if json.Unmarshal(payload, &incoming) != nil {
			continue
		}
		for _, msg := range s.handleMessage(incoming) {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}
		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	handler, known := lspHandlers[incoming.Method]
	switch {
	case !known && incoming.ID != nil:
		return []lspOutboundMessage{replyError(incoming.ID, -32601, "method not found")}
	case handler == nil:
		return nil
	}
	return handler(s, incoming)
}

func reply(id *json.RawMessage, result any) lspOutboundMessage {
	return lspOutboundMessage{JSONRPC: "2.0", ID: id, Result: result}
}

func replyError(id *json.RawMessage, code int, message string) lspOutboundMessage {
	return lspOutboundMessage{JSONRPC: "2.0", ID: id, Error: &lspResponseError{Code: code, Message: message}}
}

func (s *lspServer) initialize(incoming lspInboundMessage) []lspOutboundMessage {
	return []lspOutboundMessage{reply(incoming.ID, map[string]any{
		"capabilities": map[string]any{
			"textDocumentSync":   1,
			"hoverProvider":      true,
			"completionProvider": map[string]any{"resolveProvider": false},
		},
		"serverInfo": map[string]any{"name": "pscript-lsp"},
	})}
}

func (s *lspServer) shutdown(incoming lspInboundMessage) []lspOutboundMessage {
	if incoming.ID == nil {
		return nil
	}
	return []lspOutboundMessage{reply(incoming.ID, nil)}
}

func (s *lspServer) didOpen(incoming lspInboundMessage) []lspOutboundMessage {
	var params lspDidOpenParams
	if json.Unmarshal(incoming.Params, &params) != nil {
		return nil
	}
	return s.store(params.TextDocument.URI, params.TextDocument.Text)
}

// didChange applies full-document sync: the last change carries the whole
// text.
func (s *lspServer) didChange(incoming lspInboundMessage) []lspOutboundMessage {
	var params lspDidChangeParams
	if json.Unmarshal(incoming.Params, &params) != nil || len(params.ContentChanges) == 0 {
		return nil
	}
	return s.store(params.TextDocument.URI, params.ContentChanges[len(params.ContentChanges)-1].Text)
}

func (s *lspServer) didClose(incoming lspInboundMessage) []lspOutboundMessage {
	var params lspTextDocumentPositionParams
	if json.Unmarshal(incoming.Params, &params) != nil {
		return nil
	}
	delete(s.docs, params.TextDocument.URI)
	return nil
}

func (s *lspServer) store(uri, text string) []lspOutboundMessage {
	s.docs[uri] = text
	return []lspOutboundMessage{{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(text),
		},
	}}
}

func (s *lspServer) completion(incoming lspInboundMessage) []lspOutboundMessage {
	if incoming.ID == nil {
		return nil
	}
	return []lspOutboundMessage{reply(incoming.ID, map[string]any{
		"isIncomplete": false,
		"items":        completionItems(),
	})}
}

func (s *lspServer) hover(incoming lspInboundMessage) []lspOutboundMessage {
	if incoming.ID == nil {
		return nil
	}
	var params lspTextDocumentPositionParams
	if json.Unmarshal(incoming.Params, &params) != nil {
		return []lspOutboundMessage{replyError(incoming.ID, -32602, "invalid hover params")}
	}
	word := wordAtPosition(s.docs[params.TextDocument.URI], params.Position.Line, params.Position.Character)
	if word == "" {
		return []lspOutboundMessage{reply(incoming.ID, nil)}
	}
	return []lspOutboundMessage{reply(incoming.ID, map[string]any{
		"contents": map[string]any{
			"kind":  "markdown",
			"value": fmt.Sprintf("`%s`\n\npscript %s", word, classifyWord(word)),
		},
	})}
}

const (
	severityError   = 1
	severityWarning = 2

	completionKindFunction = 3
	completionKindKeyword  = 14
)

type lspPosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type lspRange struct {
	Start lspPosition `json:"start"`
	End   lspPosition `json:"end"`
}

type lspDiagnostic struct {
	Range    lspRange `json:"range"`
	Severity int      `json:"severity"`
	Source   string   `json:"source"`
	Message  string   `json:"message"`
}

type lspCompletionItem struct {
	Label  string `json:"label"`
	Kind   int    `json:"kind"`
	Detail string `json:"detail"`
}

// diagnosticsForSource reports a tokenizer failure as an error, or the
// analyzer's findings as warnings when the source tokenizes.
func diagnosticsForSource(source string) []lspDiagnostic {
	warnings, err := analyzeSource(source)
	if err != nil {
		var syntaxErr *pscript.SyntaxError
		if errors.As(err, &syntaxErr) {
			return []lspDiagnostic{newDiagnostic(syntaxErr.Pos, severityError, syntaxErr.Message)}
		}
		return []lspDiagnostic{newDiagnostic(pscript.Position{}, severityError, err.Error())}
	}

	out := make([]lspDiagnostic, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, newDiagnostic(w.Pos, severityWarning, w.Message))
	}
	return out
}

// newDiagnostic converts a 1-based source position into a one-character
// LSP range.
func newDiagnostic(pos pscript.Position, severity int, message string) lspDiagnostic {
	start := lspPosition{Line: max(pos.Line-1, 0), Character: max(pos.Column-1, 0)}
	end := start
	end.Character++
	return lspDiagnostic{
		Range:    lspRange{Start: start, End: end},
		Severity: severity,
		Source:   "pscript-lsp",
		Message:  message,
	}
}

func completionItems() []lspCompletionItem {
	items := make([]lspCompletionItem, 0, len(primitiveNames)+len(lspLiterals))
	for _, name := range primitiveNames {
		items = append(items, lspCompletionItem{Label: name, Kind: completionKindFunction, Detail: "primitive"})
	}
	for _, name := range lspLiterals {
		items = append(items, lspCompletionItem{Label: name, Kind: completionKindKeyword, Detail: "literal"})
	}
	slices.SortFunc(items, func(a, b lspCompletionItem) int {
		return strings.Compare(a.Label, b.Label)
	})
	return items
}

func classifyWord(word string) string {
	if slices.Contains(primitiveNames, word) {
		return "primitive"
	}
	tokens, err := pscript.Tokenize(word)
	if err != nil || len(tokens) != 1 {
		return "name"
	}
	tok := tokens[0]
	if !tok.IsLiteral() {
		return "name"
	}
	switch tok.Value.Kind() {
	case pscript.KindName:
		return "name literal"
	default:
		return tok.Value.Kind().String() + " literal"
	}
}

// wordAtPosition returns the token under a UTF-16 character offset, the
// unit LSP clients use for positions. A cursor just past a token still
// selects it.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	type span struct{ start, end int }
	var words []span
	runes := []rune(lines[line])
	offset, wordStart := 0, -1
	for i, r := range runes {
		if isWordRune(r) && wordStart < 0 {
			wordStart = offset
		}
		if !isWordRune(r) && wordStart >= 0 {
			words = append(words, span{wordStart, offset})
			wordStart = -1
		}
		offset += utf16.RuneLen(r)
		if wordStart >= 0 && i == len(runes)-1 {
			words = append(words, span{wordStart, offset})
		}
	}

	for _, w := range words {
		if character >= w.start && character <= w.end {
			return string(utf16.Decode(utf16.Encode(runes)[w.start:w.end]))
		}
	}
	return ""
}

func isWordRune(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	switch r {
	case '{', '}', '(', ')', '%':
		return false
	}
	return true
}

// readPayload reads one base-protocol message: MIME-style headers, a blank
// line, then Content-Length bytes of JSON.
func (s *lspServer) readPayload() ([]byte, error) {
	header, err := textproto.NewReader(s.reader).ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) && len(header) == 0 {
			return nil, io.EOF
		}
		return nil, err
	}

	raw := header.Get("Content-Length")
	if raw == "" {
		return nil, errors.New("missing Content-Length header")
	}
	length, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || length < 0 {
		return nil, fmt.Errorf("invalid Content-Length %q", raw)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data))
	s.writer.Write(data)
	return s.writer.Flush()
}
