package boot_test

import (
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/moffa90/go-colorhug/board/mocks"
	"github.com/moffa90/go-colorhug/boot"
	"github.com/moffa90/go-colorhug/config"
	"github.com/moffa90/go-colorhug/dfu"
	"github.com/moffa90/go-colorhug/flash"
)

func newStore(t *testing.T) (*config.Store, *flash.EEPROM) {
	t.Helper()
	eeprom := flash.NewEEPROM(64)
	s := config.NewStore(eeprom)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s, eeprom
}

func TestApplicationConfirmsImage(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	store, eeprom := newStore(t)
	app := boot.NewApplication(store, mocks.NewMockTarget(mockCtrl))

	report, err := app.OnGetStatus()
	if err != nil {
		t.Fatalf("OnGetStatus: %v", err)
	}
	if report.Status != dfu.StatusOK || report.State != dfu.StateAppIdle {
		t.Errorf("report = %+v", report)
	}
	if !store.Config().FlashSuccess {
		t.Error("flash_success not set")
	}

	writes := eeprom.Writes
	app.OnGetStatus()
	if eeprom.Writes != writes {
		t.Error("confirmed image persisted again")
	}
}

func TestApplicationDetach(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	store, _ := newStore(t)
	target := mocks.NewMockTarget(mockCtrl)
	app := boot.NewApplication(store, target)

	// bus reset while idle does nothing
	app.OnBusReset()

	app.Detach()
	if app.State() != dfu.StateAppDetach {
		t.Fatalf("state = %s", app.State())
	}
	target.EXPECT().Reset().Times(1)
	app.OnBusReset()
}
