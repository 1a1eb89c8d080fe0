//go:build !js
// +build !js

package main

import (
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/gordonklaus/portaudio"
	"github.com/simukka/bicial/audio/offline"
)

// output streams a software context to the default sound device.
type output struct {
	stream *portaudio.Stream
}

func openOutput(ctx *offline.Context, bufferFrames int) (*output, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fault.Wrap(err, fmsg.WithDesc("portaudio init", "No audio output is available."))
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, ctx.SampleRate(), bufferFrames, ctx.ReadFloat32)
	if err != nil {
		portaudio.Terminate()
		return nil, fault.Wrap(err, fmsg.WithDesc("open stream", "Could not open the default sound device."))
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fault.Wrap(err, fmsg.WithDesc("start stream", "Could not start audio output."))
	}
	return &output{stream: stream}, nil
}

func (o *output) Close() error {
	defer portaudio.Terminate()
	if err := o.stream.Stop(); err != nil {
		o.stream.Close()
		return fault.Wrap(err, fmsg.With("stop stream"))
	}
	return o.stream.Close()
}
