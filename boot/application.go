package boot

import (
	"github.com/moffa90/go-colorhug/board"
	"github.com/moffa90/go-colorhug/config"
	"github.com/moffa90/go-colorhug/dfu"
)

// ConfigStore is the part of config.Store the application hooks need.
type ConfigStore interface {
	Config() config.DeviceConfig
	Update(fn func(*config.DeviceConfig)) error
}

// Application implements the DFU runtime hooks of the installed application.
type Application struct {
	store  ConfigStore
	target board.Target
	opts   options

	state dfu.State
}

// NewApplication creates the hooks in the appIDLE state.
func NewApplication(store ConfigStore, target board.Target, opts ...Option) *Application {
	return &Application{
		store:  store,
		target: target,
		opts:   buildOptions(opts),
		state:  dfu.StateAppIdle,
	}
}

// State returns the DFU runtime state.
func (a *Application) State() dfu.State {
	return a.state
}

// OnGetStatus services DFU_GETSTATUS. A host that can talk to the
// application confirms the image, so flash_success is set when it is not
// already.
func (a *Application) OnGetStatus() (dfu.StatusReport, error) {
	if !a.store.Config().FlashSuccess {
		if err := a.store.Update(func(c *config.DeviceConfig) { c.FlashSuccess = true }); err != nil {
			return dfu.StatusReport{Status: dfu.StatusErrUnknown, State: a.state}, err
		}
		a.opts.log.Info("firmware confirmed, auto-boot enabled")
	}
	return dfu.StatusReport{Status: dfu.StatusOK, State: a.state}, nil
}

// Detach services DFU_DETACH.
func (a *Application) Detach() {
	a.state = dfu.StateAppDetach
}

// OnBusReset resets into the update agent when the host detached first.
func (a *Application) OnBusReset() {
	if a.state != dfu.StateAppDetach {
		return
	}
	a.opts.log.Info("bus reset in appDETACH, restarting into update agent")
	a.target.Reset()
}
