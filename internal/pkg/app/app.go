package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/awesome-gocui/gocui"
	"github.com/gethiox/sensehat/internal/pkg/clock"
	"github.com/gethiox/sensehat/internal/pkg/config"
	"github.com/gethiox/sensehat/internal/pkg/emulator"
	"github.com/gethiox/sensehat/internal/pkg/input"
	"github.com/gethiox/sensehat/internal/pkg/logger"
	"github.com/gethiox/sensehat/internal/pkg/matrix"
	"github.com/gethiox/sensehat/internal/pkg/pcf8574"
	"github.com/logrusorgru/aurora"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// App carries what every program needs: options, hardware config, console output and signal handling
type App struct {
	Options Options
	Config  config.Config
	Au      aurora.Aurora
	Out     io.Writer

	gui      *gocui.Gui
	emulator *emulator.Emulator
	closeUI  func()
	errOut   io.Writer

	cancel   func()
	sigs     chan os.Signal
	sigsDone chan struct{}
	wg       sync.WaitGroup
	printer  *printer
}

// EventSource delivers joystick events, real or emulated
type EventSource interface {
	WaitForEvent(ctx context.Context) (input.Event, error)
	Close() error
}

// Main parses command line flags, runs the program and exits with its status.
// Interactive programs draw on the LED matrix and read the joystick, only they honour -ui.
func Main(interactive bool, run func(ctx context.Context, a *App) error) {
	opts, err := ParseOptions(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	os.Exit(Execute(opts, interactive, run))
}

func Execute(opts Options, interactive bool, run func(ctx context.Context, a *App) error) int {
	ctx, a, err := start(opts, interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	return a.exit(run(ctx, a))
}

// exit shuts the app down and returns the process status for err. The log view goes away
// together with the terminal ui, a failure is repeated on stderr in that case.
func (a *App) exit(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		a.stop()
		return 0
	}

	log.Info(err.Error(), logger.Error)
	ui := a.closeUI != nil
	a.stop()
	if ui && !a.Options.Silent {
		fmt.Fprintf(a.errOut, "%s\n", a.Au.Red(err.Error()))
	}
	return 1
}

func start(opts Options, interactive bool) (context.Context, *App, error) {
	a := &App{
		Options:  opts,
		Au:       aurora.NewAurora(!opts.NoColor),
		Out:      os.Stdout,
		errOut:   os.Stderr,
		sigs:     make(chan os.Signal, 1),
		sigsDone: make(chan struct{}),
	}

	if interactive && opts.UI {
		err := a.runUI()
		if err != nil {
			return nil, nil, fmt.Errorf("starting terminal ui failed: %w", err)
		}
	}

	var sink func(string)
	var width func() int
	switch {
	case opts.Silent:
		sink = nil
	case a.emulator != nil:
		sink, width = a.emulator.Log, a.emulator.LogWidth
	default:
		sink = func(s string) { fmt.Fprintln(a.errOut, s) }
	}
	a.printer = startPrinter(logger.Messages, sink, width, a.Au, threshold(opts.LogLevel))
	logger.SetDrained(true)

	if !interactive && opts.UI {
		log.Info("-ui has no effect for this program", logger.Warning)
	}

	err := config.CreateIfNeeded(opts.ConfigPath)
	if err != nil {
		a.stop()
		return nil, nil, err
	}
	a.Config, err = config.Load(opts.ConfigPath)
	if err != nil {
		a.stop()
		return nil, nil, fmt.Errorf("loading \"%s\" failed: %w", opts.ConfigPath, err)
	}
	log.Info(fmt.Sprintf("config: %+v", a.Config), logger.Debug)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	signal.Notify(a.sigs, syscall.SIGINT, syscall.SIGTERM)
	a.wg.Add(1)
	go handleSigs(&a.wg, a.sigs, a.sigsDone, cancel, a.dirtyExit)

	return ctx, a, nil
}

func (a *App) runUI() error {
	g, err := emulator.NewGui()
	if err != nil {
		return err
	}
	e, err := emulator.New(g, a.Au)
	if err != nil {
		g.Close()
		return err
	}
	a.gui, a.emulator = g, e
	a.closeUI = func() {
		_ = e.Close()
		g.Close()
	}

	go func() {
		err := g.MainLoop()
		if err == gocui.ErrQuit {
			a.interrupt()
			return
		}
		if err != nil {
			log.Info(fmt.Sprintf("terminal ui failed: %v", err), logger.Error)
			a.interrupt()
		}
	}()
	return nil
}

// interrupt behaves like a received SIGINT
func (a *App) interrupt() {
	select {
	case a.sigs <- syscall.SIGINT:
	default:
	}
}

func (a *App) dirtyExit() {
	if a.gui != nil {
		a.gui.Close()
	}
	fmt.Println("Dirty exit")
	os.Exit(1)
}

func handleSigs(wg *sync.WaitGroup, sigs <-chan os.Signal, done <-chan struct{}, cancel func(), dirtyExit func()) {
	defer wg.Done()
	var counter int
	for {
		select {
		case <-done:
			return
		case sig := <-sigs:
			if counter > 0 {
				dirtyExit()
				return
			}
			log.Info(fmt.Sprintf("signal received: %v", sig), logger.Debug)
			cancel()
			counter++
		}
	}
}

// stop can be invoked only when all program goroutines that may emit logs are done
func (a *App) stop() {
	if a.cancel != nil {
		a.cancel()
		signal.Stop(a.sigs)
		close(a.sigsDone)
		a.wg.Wait()
	}

	if a.closeUI != nil {
		a.closeUI()
		a.closeUI = nil
	}
	logger.SetDrained(false)
	a.printer.stop()
}

// OpenMatrix returns the LED matrix, drawn in the terminal with -ui
func (a *App) OpenMatrix() (*matrix.Matrix, error) {
	var device matrix.Device
	if a.emulator != nil {
		device = a.emulator
	} else {
		fb, err := matrix.OpenFramebuffer(a.Config.Matrix.Framebuffer)
		if err != nil {
			return nil, err
		}
		device = fb
	}

	m := matrix.New(device, clock.Real{})
	err := m.SetRotation(a.Config.Matrix.Rotation)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}

// OpenInput returns the joystick, it waits for the handler to appear when necessary
func (a *App) OpenInput(ctx context.Context) (EventSource, error) {
	if a.emulator != nil {
		return a.emulator, nil
	}

	info, err := input.WaitForDevice(ctx, a.Config.Joystick.Name)
	if err != nil {
		return nil, err
	}
	log.Info(fmt.Sprintf("joystick found: %s", info.String()), zap.String("handler_event", info.Event()), logger.Info)

	return input.OpenJoystick(info, a.Config.Joystick.Grab)
}

// OpenButtons returns the joy-it button joystick behind the PCF8574 expander
func (a *App) OpenButtons() (EventSource, error) {
	e, err := pcf8574.Open(a.Config.Expander)
	if err != nil {
		return nil, err
	}
	return pcf8574.NewJoystick(e, clock.Real{}, pcf8574.DefaultPoll, a.Config.Expander.LedPin), nil
}
