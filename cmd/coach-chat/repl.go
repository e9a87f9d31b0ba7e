package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/luminary-backend/pkg/coachclient"
)

type chatClient interface {
	Chat(ctx context.Context, conversationID uuid.UUID, message string, onDelta func(delta string)) (*coachclient.ChatResult, error)
}

type repl struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// interrupts delivers Ctrl-C; nil installs a signal handler.
	interrupts <-chan os.Signal
}

func (r *repl) run(ctx context.Context, client chatClient, convID uuid.UUID) error {
	interrupts := r.interrupts
	if interrupts == nil {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt)
		defer signal.Stop(sigc)
		interrupts = sigc
	}

	var printed int
	ctrl := coachclient.NewController(client, convID, coachclient.Hooks{
		Typing: func(text string) {
			fmt.Fprint(r.out, text[printed:])
			printed = len(text)
		},
		Finalized: func(coachclient.Message) { fmt.Fprintln(r.out) },
		Discarded: func() {
			if printed > 0 {
				fmt.Fprintln(r.out)
			}
		},
		Notify: func(n coachclient.Notification) {
			if n.Err != nil {
				fmt.Fprintf(r.errOut, "%s %v\n", n.Text, n.Err)
				return
			}
			fmt.Fprintln(r.errOut, n.Text)
		},
	})

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintf(r.out, "conversation %s (Ctrl-C stops a reply, \"exit\" quits)\n", convID)
	for {
		fmt.Fprint(r.out, "\n> ")

		var line string
		select {
		case <-ctx.Done():
			return nil
		case <-interrupts:
			fmt.Fprintln(r.out)
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		printed = 0
		turnCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = ctrl.Send(turnCtx, line)
		}()

		select {
		case <-done:
		case <-interrupts:
			cancel()
			<-done
			fmt.Fprintln(r.out, "[stopped]")
		}
		cancel()
	}
}
