package app

import (
	"flag"
	"fmt"

	"github.com/gethiox/sensehat/internal/pkg/config"
)

type Options struct {
	ConfigPath string
	UI         bool
	NoColor    bool
	Silent     bool
	LogLevel   int
}

func ParseOptions(fs *flag.FlagSet, args []string) (Options, error) {
	var o Options
	fs.StringVar(&o.ConfigPath, "config", config.DefaultPath, "path to the hardware config, created with defaults when missing")
	fs.BoolVar(&o.UI, "ui", false, "emulate LED matrix and joystick in the terminal instead of using the Sense HAT")
	fs.BoolVar(&o.NoColor, "nocolor", false, "disable color")
	fs.BoolVar(&o.Silent, "silent", false, "no output logging")
	fs.IntVar(&o.LogLevel, "loglevel", 2,
		"logging level, each level enables additional information class (0-5, default: 2)\n"+
			"\navailable options:\n"+
			"0: errors\n"+
			"1: warnings\n"+
			"2: general info (eg. device appearance status)\n"+
			"3: joystick events\n"+
			"4: sensor readings\n"+
			"5: debug",
	)

	err := fs.Parse(args)
	if err != nil {
		return o, err
	}
	if o.LogLevel < 0 || o.LogLevel > 5 {
		return o, fmt.Errorf("loglevel %d out of range 0-5", o.LogLevel)
	}
	return o, nil
}
