// Command demo wires request ingress, the Responder/Encoder pipeline, and a
// trivial echo handler over real TCP sockets. It is the Go equivalent of
// the original hring-h2spec example binary, minus the h2spec conformance
// harness itself.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/streamkit-go/respond"
	"github.com/streamkit-go/respond/internal/config"
	"github.com/streamkit-go/respond/internal/httpx"
	"github.com/streamkit-go/respond/internal/logx"
	"github.com/streamkit-go/respond/internal/netx"
)

func main() {
	cfg, err := config.FromFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logx.Fallback()
	defer logger.Sync()

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		logger.Fatal("listen failed", zap.Error(err))
	}
	logger.Info("listening", zap.String("addr", ln.Addr().String()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var nextConnID uint64
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("accept failed", zap.Error(err))
			continue
		}
		id := atomic.AddUint64(&nextConnID, 1)
		go handleConn(ctx, conn, cfg, logger, id)
	}
}

// parsedRequest pairs a parsed request head with the Body pulling its
// entity, so the read loop can hand complete units to the serving loop.
type parsedRequest struct {
	req  *httpx.Request
	body respond.Body
}

// handleConn runs two goroutines per connection under an errgroup: one
// parses successive requests off the wire, the other drains them and drives
// the Responder. Keeping them concurrent lets the server start reading the
// next pipelined request while still writing the previous response,
// mirroring how the HTTP/2 body adapter decouples production from
// consumption.
func handleConn(ctx context.Context, conn net.Conn, cfg config.Config, logger *zap.Logger, connID uint64) {
	defer conn.Close()
	fields := logx.ConnFields(conn.RemoteAddr().String(), connID)
	logger.Debug("connection accepted", fields...)

	reader := netx.NewCRLFFastReader(conn)
	limits := httpx.ParseLimits{MaxLineBytes: cfg.MaxHeaderBytes, MaxHeaderBytes: cfg.MaxHeaderBytes}

	reqCh := make(chan parsedRequest)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(reqCh)
		for {
			if cfg.ReadTimeout > 0 {
				conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
			}
			req, err := httpx.ParseRequest(reader, limits)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return writeErrorResponse(gctx, conn, err)
			}
			req = req.WithContext(gctx)

			bodyReader, contentLength, err := httpx.NewBodyReader(gctx, req, reader, cfg.MaxBodyBytes)
			if err != nil {
				return err
			}
			body := respond.NewReaderBody(bodyReader, lengthPtr(contentLength))

			select {
			case reqCh <- parsedRequest{req: req, body: body}:
			case <-gctx.Done():
				return gctx.Err()
			}

			if !keepAlive(req) {
				return nil
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case pr, ok := <-reqCh:
				if !ok {
					return nil
				}
				if err := serveOne(gctx, conn, pr); err != nil {
					return err
				}
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Debug("connection ended", append(fields, zap.Error(err))...)
	}
}

// serveOne drives one request through the echo handler and finalizes the
// encoder, flushing any chunked trailer section left open.
func serveOne(ctx context.Context, conn net.Conn, pr parsedRequest) error {
	enc := httpx.NewEncoder1(ctx, conn)
	responder := respond.NewResponder[*httpx.Encoder1](enc)

	done, err := echoHandler(ctx, pr.req, pr.body, responder)
	if err != nil {
		return err
	}
	return done.IntoInner().Finalize()
}

// echoHandler drains the request body, then answers with a fixed plain-text
// line describing the request, grounded in the original example's
// TestBody (a single known-length chunk, no trailers).
func echoHandler(ctx context.Context, req *httpx.Request, body respond.Body, r respond.HeadersResponder[*httpx.Encoder1]) (respond.DoneResponder[*httpx.Encoder1], error) {
	for {
		chunk, err := body.Next(ctx)
		if err != nil {
			return respond.DoneResponder[*httpx.Encoder1]{}, err
		}
		if chunk.Done {
			break
		}
	}

	msg := fmt.Sprintf("%s %s %s\n", req.Method, req.RequestURI, req.Proto)
	h := httpx.Header{}
	h.Set("Content-Type", "text/plain; charset=utf-8")

	return r.WriteFinalResponseWithBody(ctx, respond.Response{
		Version: respond.HTTP11,
		Status:  200,
		Header:  h,
	}, respond.NewStaticBody([]byte(msg), nil))
}

// writeErrorResponse maps a request-parsing failure to a best-effort
// synthesized response, then returns the original error so the connection
// closes: request-line and header parsing failures are not recoverable to
// a point where a further request could be read from the same stream.
func writeErrorResponse(ctx context.Context, conn net.Conn, parseErr error) error {
	status := 400
	if errors.Is(parseErr, httpx.ErrHeaderBlockTooLarge) {
		status = 431
	}
	enc := httpx.NewEncoder1(ctx, conn)
	h := httpx.Header{}
	h.Set("Connection", "close")
	_ = enc.WriteResponse(ctx, respond.Response{Version: respond.HTTP11, Status: status, Header: h})
	_ = enc.WriteBodyEnd(ctx)
	_ = enc.Finalize()
	return parseErr
}

func lengthPtr(n int64) *uint64 {
	if n < 0 {
		return nil
	}
	u := uint64(n)
	return &u
}

// keepAlive reports whether the connection should stay open for another
// request, per RFC 7230 §6.3 defaults: HTTP/1.1 keeps alive unless told to
// close; HTTP/1.0 closes unless told to keep alive.
func keepAlive(req *httpx.Request) bool {
	conn := strings.ToLower(req.Header.Get("Connection"))
	switch {
	case strings.Contains(conn, "close"):
		return false
	case strings.Contains(conn, "keep-alive"):
		return true
	default:
		return req.ProtoMajor == 1 && req.ProtoMinor >= 1
	}
}
