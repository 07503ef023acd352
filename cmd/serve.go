package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/spf13/cobra"

	"github.com/witanlabs/xlq/output"
)

func newServeCmd(a *app) *cobra.Command {
	c := newCommand(a, "serve", "Answer JSON requests from stdin, one per line", `Answer requests without restarting the process. Each input line is a JSON
object; each request produces exactly one compact JSON envelope line on
stdout. Blank lines are skipped, unknown fields are ignored and the process
exits 0 at end of input.

Request fields:
  command (required), file, sheet, cell, term, range, limit, headerRow,
  regex, where

With --listen the same protocol is served over websocket text messages
instead of stdin, one response message per request message.

Examples:
  echo '{"command":"info","file":"report.xlsx"}' | xlq serve
  echo '{"command":"read","file":"report.xlsx","sheet":"Sales","limit":5}' | xlq serve
  xlq serve --listen 127.0.0.1:7070`)
	c.Flags().String("listen", "", "Serve websocket requests on this address instead of stdin")
	return c
}

func runServe(ctx context.Context, a *app, in *invocation, _ *output.Printer) error {
	addr := in.listen
	if addr == "" {
		addr = a.settings.Listen
	}
	if addr != "" {
		return a.serveWebsocket(ctx, addr)
	}
	return a.serveStdio(ctx)
}

// serveRequest is one request line. Fields other than Command are optional.
type serveRequest struct {
	Command   string `json:"command"`
	File      string `json:"file"`
	Sheet     string `json:"sheet"`
	Cell      string `json:"cell"`
	Term      string `json:"term"`
	Range     string `json:"range"`
	Limit     *int   `json:"limit"`
	HeaderRow *int   `json:"headerRow"`
	Regex     bool   `json:"regex"`
	Where     string `json:"where"`
}

// argv translates r into a command line with compact JSON output forced.
// Positionals follow "--" so values that look like flags stay positional.
func (r serveRequest) argv() []string {
	args := []string{"--json-compact", "--quiet"}
	if r.Range != "" {
		args = append(args, "--range="+r.Range)
	}
	if r.Limit != nil {
		args = append(args, "--limit="+strconv.Itoa(*r.Limit))
	}
	if r.HeaderRow != nil {
		args = append(args, "--header-row="+strconv.Itoa(*r.HeaderRow))
	}
	if r.Where != "" {
		args = append(args, "--where="+r.Where)
	}
	if r.Regex {
		args = append(args, "--regex")
	}
	args = append(args, "--")
	values := map[string]string{"file": r.File, "sheet": r.Sheet, "cell": r.Cell, "term": r.Term}
	for _, name := range positionals[r.Command] {
		v := values[name]
		if v == "" {
			break
		}
		args = append(args, v)
	}
	return args
}

func (a *app) serveStdio(ctx context.Context) error {
	a.logger.Debug("serving requests on stdin")
	r := bufio.NewReader(a.stdin)
	for {
		line, err := r.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			a.handleRequest(ctx, a.stdout, line)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading requests: %w", err)
		}
	}
}

// handleRequest answers one request line on w. Failures are reported in the
// response and never returned.
func (a *app) handleRequest(ctx context.Context, w io.Writer, line string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sub := a.withStdout(w)
	p := output.NewPrinter(a.build, w, a.stderr, output.Options{Mode: output.ModeJSONCompact, Quiet: true})

	var req serveRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		_ = sub.fail(p, "serve", invalidArg("invalid request: %v", err), nil)
		return
	}
	if req.Command == "" {
		_ = sub.fail(p, "serve", missingArg("request is missing \"command\""), nil)
		return
	}
	if req.Command == "serve" {
		_ = sub.fail(p, "serve", invalidArg("serve cannot be nested inside serve"), nil)
		return
	}

	err := sub.dispatch(ctx, req.Command, req.argv())
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		a.logger.Warn("request failed", "command", req.Command, "err", err)
	}
}

func (a *app) serveWebsocket(ctx context.Context, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           a.websocketHandler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.logger.Info("serving websocket requests", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// websocketHandler answers every text message of a connection with one
// response message.
func (a *app) websocketHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			a.logger.Warn("websocket accept failed", "err", err)
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()
		for {
			typ, msg, err := conn.Read(ctx)
			if err != nil {
				if s := websocket.CloseStatus(err); s != websocket.StatusNormalClosure && s != websocket.StatusGoingAway {
					a.logger.Debug("websocket read ended", "err", err)
				}
				return
			}
			if typ != websocket.MessageText {
				conn.Close(websocket.StatusUnsupportedData, "requests must be text messages")
				return
			}
			var buf bytes.Buffer
			a.handleRequest(ctx, &buf, string(msg))
			if err := conn.Write(ctx, websocket.MessageText, bytes.TrimRight(buf.Bytes(), "\n")); err != nil {
				a.logger.Debug("websocket write failed", "err", err)
				return
			}
		}
	})
}
