package app

import (
	"github.com/logrusorgru/aurora"
)

// printer drains log entries into sink, a nil sink discards them. width reports the
// current line width of the sink, nil means lines are not fitted.
type printer struct {
	done    chan struct{}
	stopped chan struct{}
}

func startPrinter(messages <-chan []byte, sink func(string), width func() int, au aurora.Aurora, maxLevel int) *printer {
	p := &printer{
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	write := func(data []byte) {
		if sink == nil {
			return
		}
		msg, err := unpack(data)
		if err != nil {
			sink(string(data))
			return
		}
		w := -1
		if width != nil {
			w = width()
		}
		s := prepareString(msg, au, w, maxLevel)
		if s != "" {
			sink(s)
		}
	}

	go func() {
		defer close(p.stopped)
		for {
			select {
			case data := <-messages:
				write(data)
			case <-p.done:
				// flush what is already queued
				for {
					select {
					case data := <-messages:
						write(data)
					default:
						return
					}
				}
			}
		}
	}()
	return p
}

func (p *printer) stop() {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	<-p.stopped
}
