//go:build !js
// +build !js

// Command tui is the terminal front-end: the electrode table with live audio
// through portaudio, or an offline WAV bounce with -bounce.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/simukka/bicial/audio"
	"github.com/simukka/bicial/audio/offline"
	"github.com/simukka/bicial/bounce"
	"github.com/simukka/bicial/common"
	"github.com/simukka/bicial/store"
	"github.com/simukka/bicial/table"
)

func main() {
	var (
		storePath = flag.String("store", "", "settings file (default: user config dir)")
		rate      = flag.Int("rate", offline.DefaultSampleRate, "output sample rate")
		buffer    = flag.Int("buffer", 512, "output buffer in frames")
		logPath   = flag.String("log", "", "log file (default: discard)")
		logLevel  = flag.String("level", "info", "log level")
		doc       = flag.String("doc", "bicial-settings.json", "export/import document")
		bounceTo  = flag.String("bounce", "", "render to this WAV file and exit")
		mode      = flag.String("mode", string(bounce.Alternating), "bounce mode: alt, batch-L, batch-R, batch-alt")
		row       = flag.Int("row", 1, "electrode for -mode alt")
	)
	flag.Parse()

	if err := run(*storePath, *rate, *buffer, *logPath, *logLevel, *doc, *bounceTo, *mode, *row); err != nil {
		fmt.Fprintln(os.Stderr, fmsg.GetIssue(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(storePath string, rate, buffer int, logPath, logLevel, doc, bounceTo, mode string, row int) error {
	var logOut io.Writer = io.Discard
	if bounceTo != "" {
		logOut = os.Stderr
	}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fault.Wrap(err, fmsg.WithDesc("open log", "Could not open the log file."))
		}
		defer f.Close()
		logOut = f
	}
	common.LoggerFactory = common.NewLoggerFactory(logOut, common.ParseLogLevel(logLevel))
	log := common.Logger("tui")

	if storePath == "" {
		p, err := store.DefaultPath()
		if err != nil {
			return err
		}
		storePath = p
	}
	kv, err := store.OpenFile(storePath)
	if err != nil {
		return err
	}
	st := store.New(kv)
	log.Infof("settings at %s", kv.Path())

	if bounceTo != "" {
		m, ok := bounce.ParseMode(mode)
		if !ok {
			return fault.New("unknown mode "+mode, fmsg.WithDesc("parse mode", "Unknown bounce mode "+mode+"."))
		}
		return bounce.WriteFile(bounceTo, st, bounce.Options{
			Mode:       m,
			Row:        row - 1,
			SampleRate: rate,
		})
	}

	var p *tea.Program
	send := func(msg tea.Msg) { p.Send(msg) }

	ctx := offline.New(float64(rate), offline.WithDispatcher(dispatcher(send)))
	out, err := openOutput(ctx, buffer)
	if err != nil {
		log.Warnf("audio disabled: %v", err)
	} else {
		defer out.Close()
	}
	engine := audio.NewEngine(func() audio.Context {
		if out == nil {
			return nil
		}
		return ctx
	})

	view := &table.Headless{}
	c := table.NewController(st, engine, &loopClock{send: send}, view)
	p = tea.NewProgram(newModel(c, view, doc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fault.Wrap(err, fmsg.With("run program"))
	}
	// let the last fades reach the device
	time.Sleep(100 * time.Millisecond)
	return nil
}
