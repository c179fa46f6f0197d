package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/image/draw"

	"github.com/gdamore/tcell/v2"
	"github.com/kevmo314/go-tintin"
	"github.com/kevmo314/go-tintin/pkg/params"
	"github.com/kevmo314/go-tintin/pkg/video"
	"github.com/rivo/tview"
)

func main() {
	path := flag.String("path", "", "path to the usb device, the first attached board if empty")
	configPath := flag.String("config", "", "path to a yaml config")

	flag.Parse()

	cfg := tintin.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = tintin.LoadConfig(*configPath); err != nil {
			panic(err)
		}
	}
	level, err := cfg.Level()
	if err != nil {
		panic(err)
	}

	var dev *tintin.Handle
	if *path != "" {
		dev, err = tintin.OpenPath(*path)
	} else {
		dev, err = tintin.OpenDevice(cfg)
	}
	if err != nil {
		panic(err)
	}

	app := tview.NewApplication()

	logText := tview.NewTextView()
	logText.SetMaxLines(10).SetBorder(true).SetTitle("Log")
	logger := slog.New(slog.NewTextHandler(logText, &slog.HandlerOptions{Level: level}))

	camera, err := tintin.New(dev, tintin.WithConfig(cfg), tintin.WithLogger(logger))
	if err != nil {
		camera.Close()
		panic(err)
	}
	defer camera.Close()

	if err := camera.Start(); err != nil {
		panic(err)
	}

	parameters := tview.NewList()
	parameters.SetBorder(true).SetTitle(fmt.Sprintf("Parameters (%s)", camera.Backend().Kind()))

	modes := tview.NewList()
	modes.SetBorder(true).SetTitle("Video Modes")

	secondColumn := tview.NewFlex().SetDirection(tview.FlexRow).AddItem(modes, 0, 1, false)

	preview := tview.NewImage()
	preview.SetColors(256).SetDithering(tview.DitheringNone).SetBorder(true).SetTitle("Preview")

	var refresh func()
	refresh = func() {
		current := parameters.GetCurrentItem()
		parameters.Clear()
		ps, err := camera.Parameters()
		if err != nil {
			logger.Error("list parameters", "err", err)
			return
		}
		for _, p := range ps {
			parameters.AddItem(parameterTitle(camera, p), parameterSubtitle(p), 0, func() {
				if p.Access() == params.AccessReadOnly {
					logger.Warn("parameter is read-only", "id", p.ID())
					return
				}
				input := tview.NewInputField()
				input.SetLabel(fmt.Sprintf("%s [%d, %d]: ", p.ID(), p.LowerLimit(), p.UpperLimit())).
					SetFieldWidth(10).
					SetAcceptanceFunc(tview.InputFieldInteger).
					SetDoneFunc(func(key tcell.Key) {
						if key == tcell.KeyEnter {
							v, err := strconv.ParseUint(input.GetText(), 10, 32)
							if err != nil {
								logger.Error("failed parsing value", "err", err)
							} else if err := camera.Set(p.ID(), uint32(v)); err == nil {
								logger.Info("parameter set", "id", p.ID(), "value", v)
							}
						}
						secondColumn.RemoveItem(input)
						refresh()
						app.SetFocus(parameters)
					})
				secondColumn.AddItem(input, 3, 0, false)
				app.SetFocus(input)
			})
		}
		parameters.SetCurrentItem(current)
	}
	refresh()

	active := &atomic.Uint32{}

	for _, m := range camera.SupportedVideoModes() {
		modes.AddItem(modeTitle(m), fmt.Sprintf("%d bytes per pixel", m.BytesPerPixel), 0, func() {
			track := active.Add(1)
			if err := camera.StopStreaming(); err != nil {
				logger.Warn("stop streaming", "err", err)
			}
			if err := configure(camera, m); err != nil {
				return
			}
			if err := camera.StartStreaming(); err != nil {
				logger.Error("start streaming", "err", err)
				return
			}
			refresh()
			go func() {
				t0 := time.Now().Add(-1 * time.Second)
				frames := 0
				for active.Load() == track {
					ctx, cancel := context.WithTimeout(context.Background(), time.Second)
					frame, err := camera.ReadFrame(ctx)
					cancel()
					if err != nil {
						logger.Error("read frame", "err", err)
						continue
					}
					frames++
					t1 := time.Now()
					if t1.Sub(t0) < 50*time.Millisecond {
						continue
					}
					t0 = t1
					img := depthImage(frame, m)
					if img == nil {
						logger.Warn("short frame", "len", len(frame), "frames", frames)
						continue
					}
					w := 64
					h := img.Bounds().Dy() * w / img.Bounds().Dx()
					preview.SetImage(resize(img, w, h))
					app.ForceDraw()
				}
			}()
			app.SetFocus(parameters)
		})
	}

	flex := tview.NewFlex().
		AddItem(parameters, 0, 1, true).
		AddItem(secondColumn, 0, 1, false).
		AddItem(preview, 0, 2, false)

	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyTab {
			if parameters.HasFocus() {
				app.SetFocus(modes)
			} else {
				app.SetFocus(parameters)
			}
			return nil
		}
		return event
	})

	if err := app.SetRoot(tview.NewFlex().SetDirection(tview.FlexRow).AddItem(flex, 0, 1, true).AddItem(logText, 10, 0, false), true).Run(); err != nil {
		panic(err)
	}
}

// configure sets the pixel depth and frame rate of m, then the frame size.
func configure(camera *tintin.Camera, m video.SupportedMode) error {
	if err := camera.Set(tintin.ParamPixelDataSize, uint32(m.BytesPerPixel)); err != nil {
		return err
	}
	if err := camera.Set(tintin.ParamFrameRate, m.FrameRate.Numerator); err != nil {
		return err
	}
	return camera.SetFrameSize(m.FrameSize)
}

// depthImage renders the first 16 bits of every pixel as gray.
func depthImage(frame []byte, m video.SupportedMode) *image.Gray16 {
	w, h, bpp := int(m.FrameSize.Width), int(m.FrameSize.Height), int(m.BytesPerPixel)
	if bpp < 2 || len(frame) < w*h*bpp {
		return nil
	}
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		v := binary.LittleEndian.Uint16(frame[i*bpp:])
		img.Pix[2*i] = byte(v >> 8)
		img.Pix[2*i+1] = byte(v)
	}
	return img
}

func resize(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func parameterTitle(camera *tintin.Camera, p params.Parameter) string {
	v, err := camera.Get(p.ID())
	if err != nil {
		return fmt.Sprintf("%s: error", p.ID())
	}
	if p.Unit() == "" {
		return fmt.Sprintf("%s: %d", p.ID(), v)
	}
	return fmt.Sprintf("%s: %d %s", p.ID(), v, p.Unit())
}

func parameterSubtitle(p params.Parameter) string {
	s := fmt.Sprintf("%s, [%d, %d] default %d", p.Access(), p.LowerLimit(), p.UpperLimit(), p.Default())
	if p.Description() != "" {
		s += ", " + p.Description()
	}
	return s
}

func modeTitle(m video.SupportedMode) string {
	return fmt.Sprintf("%s @ %s", m.FrameSize, m.FrameRate)
}
