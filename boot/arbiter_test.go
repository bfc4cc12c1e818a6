package boot_test

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/moffa90/go-colorhug/board"
	"github.com/moffa90/go-colorhug/board/mocks"
	"github.com/moffa90/go-colorhug/boot"
	"github.com/moffa90/go-colorhug/dfu"
	"github.com/moffa90/go-colorhug/flash"
	"github.com/moffa90/go-colorhug/layout"
	"github.com/moffa90/go-colorhug/protocol"
)

func TestShouldBoot(t *testing.T) {
	tests := []struct {
		watchdog     bool
		reset        bool
		flashSuccess bool
		want         bool
	}{
		{false, false, true, true},
		{false, false, false, false},
		{true, false, true, false},
		{false, true, true, false},
		{true, true, true, false},
		{true, false, false, false},
		{false, true, false, false},
		{true, true, false, false},
	}

	for _, tt := range tests {
		cause := board.ResetCause{WatchdogTimeout: tt.watchdog, ExternalReset: tt.reset}
		if got := boot.ShouldBoot(cause, tt.flashSuccess); got != tt.want {
			t.Errorf("ShouldBoot(wdt=%v, reset=%v, success=%v) = %v, want %v",
				tt.watchdog, tt.reset, tt.flashSuccess, got, tt.want)
		}
	}
}

// installedFlash returns flash with a non-blank run code at the firmware base.
func installedFlash(l *layout.Layout) *flash.Memory {
	m := flash.NewMemory(l.Flash.Size, l.Flash.EraseBlock)
	m.Load(l.Flash.FirmwareBase, []byte{0x12, 0xEF})
	return m
}

func TestDecideEntersFirmware(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	l := layout.Default()
	target := mocks.NewMockTarget(mockCtrl)
	ind := mocks.NewMockIndicator(mockCtrl)
	gomock.InOrder(
		ind.EXPECT().SetLEDs(board.LEDBoth),
		target.EXPECT().Enter(uint32(0x4000)).Return(nil),
	)

	a := boot.NewArbiter(installedFlash(l), l, target, &dfu.Session{}, boot.WithIndicator(ind))
	if err := a.Decide(board.ResetCause{}, true); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if a.State() != boot.StateFirmwareActive {
		t.Errorf("state = %s", a.State())
	}
}

func TestDecideStaysResident(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	l := layout.Default()
	// no Enter call is expected
	target := mocks.NewMockTarget(mockCtrl)

	a := boot.NewArbiter(installedFlash(l), l, target, &dfu.Session{})
	if err := a.Decide(board.ResetCause{WatchdogTimeout: true}, true); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if a.State() != boot.StateBootloader {
		t.Errorf("state = %s", a.State())
	}
	if err := a.Poll(); err != nil {
		t.Errorf("Poll without request: %v", err)
	}
}

func TestDecideNoFirmwareIsFatal(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	l := layout.Default()
	target := mocks.NewMockTarget(mockCtrl)
	blank := flash.NewMemory(l.Flash.Size, l.Flash.EraseBlock)

	a := boot.NewArbiter(blank, l, target, &dfu.Session{})
	err := a.Decide(board.ResetCause{}, true)

	var fe *boot.FatalError
	if !errors.As(err, &fe) {
		t.Fatalf("Decide = %v, want FatalError", err)
	}
	if fe.Code != protocol.ErrNoFirmware || protocol.CodeOf(err) != protocol.ErrNoFirmware {
		t.Errorf("code = %s", fe.Code)
	}
}

func TestDeferredResetAfterTransfer(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	l := layout.Default()
	target := mocks.NewMockTarget(mockCtrl)
	session := &dfu.Session{}
	a := boot.NewArbiter(installedFlash(l), l, target, session)

	if err := a.Decide(board.ResetCause{ExternalReset: true}, false); err != nil {
		t.Fatalf("Decide: %v", err)
	}

	// bus reset before any transfer is ignored
	a.OnBusReset()
	if a.State() != boot.StateBootloader {
		t.Fatalf("state = %s after idle bus reset", a.State())
	}

	session.Mark()
	a.OnBusReset()
	if a.State() != boot.StatePendingReset {
		t.Fatalf("state = %s, want pending-reset", a.State())
	}

	// flash_success is false, the jump still happens on Poll
	target.EXPECT().Enter(uint32(0x4000)).Return(nil)
	if err := a.Poll(); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if a.State() != boot.StateFirmwareActive {
		t.Errorf("state = %s", a.State())
	}
}

func TestEnterFailureIsFatal(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	l := layout.Default()
	target := mocks.NewMockTarget(mockCtrl)
	target.EXPECT().Enter(gomock.Any()).Return(errors.New("jump returned"))

	a := boot.NewArbiter(installedFlash(l), l, target, &dfu.Session{})
	a.RequestDeferredReset()

	var fe *boot.FatalError
	if err := a.Poll(); !errors.As(err, &fe) {
		t.Fatalf("Poll = %v, want FatalError", err)
	}
}
