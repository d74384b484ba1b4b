package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/duneanalytics/block-to-payload/engine"
	"github.com/go-errors/errors"
)

type Format string

const (
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatCast   Format = "cast"
	FormatCurl   Format = "curl"
)

const DefaultEngineURL = "http://localhost:8551"

var ErrUnknownFormat = errors.New("unknown output format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatNDJSON, FormatCast, FormatCurl:
		return f, nil
	default:
		return "", errors.Errorf("%q: %w", s, ErrUnknownFormat)
	}
}

// Formatter renders a newPayload call. Nothing is sent anywhere.
type Formatter interface {
	Format(w io.Writer, req *engine.NewPayloadRequest) error
}

type Options struct {
	EngineURL string
	JWTSecret []byte // nil when no secret is configured
	Now       func() time.Time
}

func New(format Format, opts Options) (Formatter, error) {
	if opts.EngineURL == "" {
		opts.EngineURL = DefaultEngineURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	switch format {
	case FormatJSON:
		return jsonFormatter{indent: true}, nil
	case FormatNDJSON:
		return jsonFormatter{}, nil
	case FormatCast:
		return castFormatter{opts: opts}, nil
	case FormatCurl:
		return curlFormatter{opts: opts}, nil
	default:
		return nil, errors.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

type call struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type jsonRPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      int               `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

type jsonFormatter struct {
	indent bool
}

func (f jsonFormatter) Format(w io.Writer, req *engine.NewPayloadRequest) error {
	params, err := req.Params()
	if err != nil {
		return err
	}
	var out []byte
	if f.indent {
		out, err = json.MarshalIndent(call{Method: req.Method(), Params: params}, "", "  ")
	} else {
		out, err = json.Marshal(call{Method: req.Method(), Params: params})
	}
	if err != nil {
		return errors.Errorf("failed to serialize call: %w", err)
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

// castFormatter prints a foundry `cast rpc` command line.
type castFormatter struct {
	opts Options
}

func (f castFormatter) Format(w io.Writer, req *engine.NewPayloadRequest) error {
	params, err := req.Params()
	if err != nil {
		return err
	}
	args := []string{"cast", "rpc", "--rpc-url", shellQuote(f.opts.EngineURL)}
	if f.opts.JWTSecret != nil {
		args = append(args, "--jwt-secret", fmt.Sprintf("%x", f.opts.JWTSecret))
	}
	args = append(args, req.Method())
	for _, param := range params {
		args = append(args, shellQuote(string(param)))
	}
	_, err = fmt.Fprintln(w, strings.Join(args, " "))
	return err
}

type curlFormatter struct {
	opts Options
}

func (f curlFormatter) Format(w io.Writer, req *engine.NewPayloadRequest) error {
	params, err := req.Params()
	if err != nil {
		return err
	}
	body, err := json.Marshal(jsonRPCRequest{JSONRPC: "2.0", ID: 1, Method: req.Method(), Params: params})
	if err != nil {
		return errors.Errorf("failed to serialize call: %w", err)
	}
	args := []string{"curl", "-sS", "-X", "POST", "-H", shellQuote("Content-Type: application/json")}
	if f.opts.JWTSecret != nil {
		token, err := NewEngineToken(f.opts.JWTSecret, f.opts.Now())
		if err != nil {
			return err
		}
		args = append(args, "-H", shellQuote("Authorization: Bearer "+token))
	}
	args = append(args, "--data", shellQuote(string(body)), shellQuote(f.opts.EngineURL))
	_, err = fmt.Fprintln(w, strings.Join(args, " "))
	return err
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
