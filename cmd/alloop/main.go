// Command alloop renders a tone through the library's loopback backend
// and logs how many frames and blocks it rendered, a minimal end-to-end exercise of
// open -> context -> queue -> render rather than a real playback tool.
package main

import (
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/openaural/alengine"
)

type cli struct {
	SampleRate int     `help:"Device sample rate in Hz." default:"48000"`
	Seconds    float64 `help:"Length of the generated tone in seconds." default:"1.0"`
	Frequency  float64 `help:"Tone frequency in Hz." default:"440"`
	UpdateSize int     `help:"Frames rendered per Render call." default:"512"`
}

func main() {
	var c cli
	kong.Parse(&c, kong.Description("Render a test tone through alengine's loopback backend."))

	logger := alengine.NewCharmLogger(log.Default())

	backend := alengine.NewLoopbackBackend()
	device, err := alengine.OpenDevice(backend, uint32(c.SampleRate), alengine.Stereo, c.UpdateSize, 4, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open device:", err)
		os.Exit(1)
	}
	defer device.Close()

	ctx, err := alengine.CreateContext(device, alengine.DefaultContextAttrs(device))
	if err != nil {
		fmt.Fprintln(os.Stderr, "create context:", err)
		os.Exit(1)
	}
	alengine.MakeContextCurrent(ctx)

	bufNames := device.GenBuffers(1)
	buf := device.Buffer(bufNames[0])

	sampleCount := int(c.Seconds * float64(c.SampleRate))
	pcm := make([]byte, sampleCount*2)
	for i := 0; i < sampleCount; i++ {
		v := math.Sin(2 * math.Pi * c.Frequency * float64(i) / float64(c.SampleRate))
		s := int16(v * 32767 * 0.5)
		pcm[i*2] = byte(s)
		pcm[i*2+1] = byte(s >> 8)
	}
	if err := buf.SetData(pcm, alengine.FormatS16, 1, uint32(c.SampleRate)); errIsFail(err) {
		fmt.Fprintln(os.Stderr, "set buffer data:", err)
		os.Exit(1)
	}

	srcNames := ctx.GenSources(1)
	source := ctx.Source(srcNames[0])
	if err := source.QueueBuffers([]*alengine.Buffer{buf}); errIsFail(err) {
		fmt.Fprintln(os.Stderr, "queue buffers:", err)
		os.Exit(1)
	}
	source.Play()

	runtime.LockOSThread()
	if err := alengine.SetRealtimePriority(1); err != nil {
		logger.Warnf("real-time scheduling unavailable, rendering at normal priority: %v", err)
	}

	framesRendered := 0
	for framesRendered < sampleCount+c.UpdateSize {
		if err := device.Render(c.UpdateSize); err != nil {
			fmt.Fprintln(os.Stderr, "render:", err)
			os.Exit(1)
		}
		framesRendered += c.UpdateSize
		if source.State() == alengine.SourceStopped {
			break
		}
	}

	total := backend.TotalFrames(alengine.Stereo.Channels())
	logger.Infof("rendered %d frames across %d blocks", total, len(backend.Blocks()))
}

func errIsFail(e alengine.ALError) bool { return e != alengine.NoError }
