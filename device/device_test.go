package device_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/moffa90/go-colorhug/board"
	"github.com/moffa90/go-colorhug/board/mocks"
	"github.com/moffa90/go-colorhug/boot"
	"github.com/moffa90/go-colorhug/command"
	"github.com/moffa90/go-colorhug/config"
	"github.com/moffa90/go-colorhug/device"
	"github.com/moffa90/go-colorhug/flash"
	"github.com/moffa90/go-colorhug/imagecipher"
	"github.com/moffa90/go-colorhug/layout"
	"github.com/moffa90/go-colorhug/protocol"
	"github.com/moffa90/go-colorhug/sram"
)

// recordLink is a command.Link that remembers its last handle.
type recordLink struct {
	next    command.TransferHandle
	acks    int
	stalls  int
	payload []byte
}

func (r *recordLink) BeginSend(payload []byte) command.TransferHandle {
	r.next++
	r.payload = payload
	return r.next
}

func (r *recordLink) BeginReceive(length int) command.TransferHandle {
	r.next++
	return r.next
}

func (r *recordLink) Ack()   { r.acks++ }
func (r *recordLink) Stall() { r.stalls++ }

// stuckMemory drops bit 0 of every byte written.
type stuckMemory struct {
	*sram.Buffer
}

func (m stuckMemory) Write(addr uint32, data []byte) error {
	masked := make([]byte, len(data))
	for i, b := range data {
		masked[i] = b &^ 1
	}
	return m.Buffer.Write(addr, masked)
}

// readOnlyEEPROM rejects every write.
type readOnlyEEPROM struct {
	*flash.EEPROM
}

func (readOnlyEEPROM) WriteAt(p []byte, off int64) (int, error) {
	return 0, errors.New("eeprom write protected")
}

type rig struct {
	layout  *layout.Layout
	flash   *flash.Memory
	eeprom  *flash.EEPROM
	storage config.Storage
	scratch sram.Memory
	link    *recordLink
	board   *board.Sim
}

func newRig() *rig {
	l := layout.Default()
	eeprom := flash.NewEEPROM(l.EEPROM.Size)
	return &rig{
		layout:  l,
		flash:   flash.NewMemory(l.Flash.Size, l.Flash.EraseBlock),
		eeprom:  eeprom,
		storage: eeprom,
		scratch: sram.NewBuffer(l.Scratch.Size),
		link:    &recordLink{},
		board:   board.NewSim(),
	}
}

// tear clears flash_success in the stored record without updating its
// checksum, as a write interrupted by power loss would.
func (r *rig) tear() {
	r.eeprom.Bytes()[r.layout.EEPROM.ConfigOffset+3] = 0
}

// provision writes a record before the device boots.
func (r *rig) provision(t *testing.T, fn func(*config.DeviceConfig)) {
	t.Helper()
	s := config.NewStore(r.eeprom)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Update(fn); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func (r *rig) install() {
	r.flash.Load(r.layout.Flash.FirmwareBase, []byte{0x12, 0xEF})
}

func (r *rig) device(hw device.Hardware, opts ...device.Option) *device.Device {
	opts = append([]device.Option{device.WithSleep(func(time.Duration) {})}, opts...)
	return device.New(hw, r.layout, r.flash, r.storage, r.scratch, r.link, opts...)
}

func (r *rig) start(t *testing.T, opts ...device.Option) *device.Device {
	t.Helper()
	d := r.device(device.HardwareOf(r.board), opts...)
	if err := d.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return d
}

func countLED(history []board.LED, v board.LED) int {
	n := 0
	for _, h := range history {
		if h == v {
			n++
		}
	}
	return n
}

func TestStartStaysResident(t *testing.T) {
	r := newRig()
	r.install()
	if err := r.scratch.Write(0, []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}

	d := r.start(t)

	if d.State() != boot.StateBootloader {
		t.Errorf("state = %s, want bootloader", d.State())
	}
	if len(r.board.Entered) != 0 {
		t.Errorf("entered firmware without flash_success: %v", r.board.Entered)
	}
	if len(r.board.History) == 0 || r.board.History[0] != board.LEDGreen {
		t.Errorf("LED history = %v, want green first", r.board.History)
	}

	got := make([]byte, r.layout.Scratch.Size)
	if err := r.scratch.Read(0, got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, bytes.Repeat([]byte{0xFF}, len(got))) {
		t.Error("scratch memory not wiped")
	}
	if want := int(r.layout.Scratch.Size / 8); r.board.WatchdogClears != want {
		t.Errorf("watchdog cleared %d times during wipe, want %d", r.board.WatchdogClears, want)
	}
}

func TestStartBootDecision(t *testing.T) {
	tests := []struct {
		name      string
		cause     board.ResetCause
		wantState boot.State
	}{
		{name: "power-on", wantState: boot.StateFirmwareActive},
		{name: "watchdog", cause: board.ResetCause{WatchdogTimeout: true}, wantState: boot.StateBootloader},
		{name: "reset instruction", cause: board.ResetCause{ExternalReset: true}, wantState: boot.StateBootloader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig()
			r.install()
			r.provision(t, func(c *config.DeviceConfig) { c.FlashSuccess = true })
			r.board.Cause = tt.cause

			d := r.start(t)

			if d.State() != tt.wantState {
				t.Errorf("state = %s, want %s", d.State(), tt.wantState)
			}
			if tt.wantState == boot.StateFirmwareActive {
				if len(r.board.Entered) != 1 || r.board.Entered[0] != r.layout.Flash.FirmwareBase {
					t.Errorf("Entered = %v", r.board.Entered)
				}
				if r.board.LEDs() != board.LEDBoth {
					t.Errorf("LEDs = %02b, want both", r.board.LEDs())
				}
			}
		})
	}
}

func TestStartFatal(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*testing.T, *rig)
		opts     []device.Option
		wantCode protocol.ChError
	}{
		{
			name: "no firmware installed",
			setup: func(t *testing.T, r *rig) {
				r.provision(t, func(c *config.DeviceConfig) { c.FlashSuccess = true })
			},
			wantCode: protocol.ErrNoFirmware,
		},
		{
			name: "corrupt config record cannot be rewritten",
			setup: func(t *testing.T, r *rig) {
				r.eeprom.Bytes()[0] = 0x01
				r.storage = readOnlyEEPROM{r.eeprom}
			},
			wantCode: protocol.ErrSelfTestEEPROM,
		},
		{
			name: "scratch self test",
			setup: func(t *testing.T, r *rig) {
				r.scratch = stuckMemory{sram.NewBuffer(r.layout.Scratch.Size)}
			},
			opts:     []device.Option{device.WithSelfTest(true)},
			wantCode: protocol.ErrSelfTestSRAM,
		},
		{
			name: "jump returned",
			setup: func(t *testing.T, r *rig) {
				r.install()
				r.provision(t, func(c *config.DeviceConfig) { c.FlashSuccess = true })
				r.board.EnterErr = errors.New("entry point returned")
			},
			wantCode: protocol.ErrNotImplemented,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig()
			tt.setup(t, r)

			d := r.device(device.HardwareOf(r.board), tt.opts...)
			err := d.Start()

			var fe *boot.FatalError
			if !errors.As(err, &fe) {
				t.Fatalf("error = %v, want *boot.FatalError", err)
			}
			if fe.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", fe.Code, tt.wantCode)
			}
			if !r.board.Halted || r.board.HaltCode != tt.wantCode {
				t.Errorf("board = %s", r.board)
			}
			if got := countLED(r.board.History, board.LEDRed); got != int(tt.wantCode) {
				t.Errorf("blinked %d times, want %d", got, tt.wantCode)
			}
			if !errors.Is(d.Step(), device.ErrHalted) {
				t.Error("Step after halt should return ErrHalted")
			}
		})
	}
}

func TestStartSelfTestPasses(t *testing.T) {
	r := newRig()
	d := r.start(t, device.WithSelfTest(true))
	if d.Halted() {
		t.Fatal("device halted")
	}
}

func TestStartSelfTestOnlyWhenResident(t *testing.T) {
	r := newRig()
	r.install()
	r.provision(t, func(c *config.DeviceConfig) { c.FlashSuccess = true })
	r.scratch = stuckMemory{sram.NewBuffer(r.layout.Scratch.Size)}
	writes := r.eeprom.Writes

	d := r.start(t, device.WithSelfTest(true))

	if d.State() != boot.StateFirmwareActive {
		t.Errorf("state = %s, want firmware", d.State())
	}
	if r.eeprom.Writes != writes {
		t.Errorf("eeprom written %d times on a firmware boot", r.eeprom.Writes-writes)
	}
}

func TestStartTornRecord(t *testing.T) {
	key := imagecipher.Key{1, 2, 3, 4}

	tests := []struct {
		name    string
		unlock  bool
		wantErr error
		wantKey imagecipher.Key
	}{
		{name: "stays resident", wantKey: key},
		{name: "unlock jumper wipes key", unlock: true, wantErr: device.ErrUnlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig()
			r.install()
			r.provision(t, func(c *config.DeviceConfig) {
				c.SerialNumber = 42
				c.FlashSuccess = true
				c.SigningKey = key
			})
			r.tear()
			r.board.Unlock = tt.unlock

			d := r.device(device.HardwareOf(r.board))
			err := d.Start()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Start = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr == nil {
				if d.Halted() || r.board.Halted {
					t.Fatalf("device halted on a torn record: %s", r.board)
				}
				if d.State() != boot.StateBootloader || len(r.board.Entered) != 0 {
					t.Errorf("state = %s, entered = %v, want resident", d.State(), r.board.Entered)
				}
			}

			s := config.NewStore(r.eeprom)
			if err := s.Load(); err != nil {
				t.Fatalf("record not rewritten: %v", err)
			}
			cfg := s.Config()
			if cfg.FlashSuccess {
				t.Error("flash_success survived a torn record")
			}
			if cfg.SerialNumber != 42 || cfg.SigningKey != tt.wantKey {
				t.Errorf("record = %+v, want serial 42 and key %08X", cfg, tt.wantKey)
			}
		})
	}
}

func TestStartUnlockJumper(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	r := newRig()
	r.provision(t, func(c *config.DeviceConfig) { c.SigningKey = imagecipher.Key{1, 2, 3, 4} })

	unlock := mocks.NewMockUnlockPin(mockCtrl)
	ind := mocks.NewMockIndicator(mockCtrl)
	halter := mocks.NewMockHalter(mockCtrl)
	unlock.EXPECT().Asserted().Return(true)
	gomock.InOrder(
		ind.EXPECT().SetLEDs(board.LEDGreen),
		ind.EXPECT().SetLEDs(board.LEDBoth),
		halter.EXPECT().Halt(protocol.ErrNone),
	)

	hw := device.Hardware{
		Target:    mocks.NewMockTarget(mockCtrl),
		Watchdog:  mocks.NewMockWatchdog(mockCtrl),
		Indicator: ind,
		Halter:    halter,
		Unlock:    unlock,
		Reset:     mocks.NewMockResetSource(mockCtrl),
	}
	d := r.device(hw)

	if err := d.Start(); !errors.Is(err, device.ErrUnlocked) {
		t.Fatalf("Start = %v, want ErrUnlocked", err)
	}
	if d.Store().Config().HasSigningKey() {
		t.Error("signing key survived the unlock jumper")
	}
	if !d.Halted() {
		t.Error("device should halt after unlock")
	}
}

func TestSwappedLEDs(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	r := newRig()
	r.provision(t, func(c *config.DeviceConfig) { c.PCBErrata = protocol.PCBErrataSwappedLEDs })

	ind := mocks.NewMockIndicator(mockCtrl)
	unlock := mocks.NewMockUnlockPin(mockCtrl)
	reset := mocks.NewMockResetSource(mockCtrl)
	unlock.EXPECT().Asserted().Return(false)
	reset.EXPECT().ResetCause().Return(board.ResetCause{})
	gomock.InOrder(
		// green on power-up lands on the red line
		ind.EXPECT().SetLEDs(board.LEDRed),
		ind.EXPECT().SetLEDs(board.LEDGreen),
	)

	hw := device.Hardware{
		Target:    mocks.NewMockTarget(mockCtrl),
		Watchdog:  r.board,
		Indicator: ind,
		Halter:    mocks.NewMockHalter(mockCtrl),
		Unlock:    unlock,
		Reset:     reset,
	}
	d := r.device(hw, device.WithBlinkInterval(1))
	if err := d.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := d.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
}

func TestStepBlinksWhileResident(t *testing.T) {
	r := newRig()
	d := r.start(t, device.WithBlinkInterval(2))

	var seen []board.LED
	for i := 0; i < 4; i++ {
		if err := d.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
		seen = append(seen, r.board.LEDs())
	}

	want := []board.LED{board.LEDGreen, board.LEDRed, board.LEDRed, board.LEDGreen}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("LEDs after step %d = %02b, want %02b", i+1, seen[i], want[i])
		}
	}
}

// firstBlock returns a block 0 with an accepted vector table.
func firstBlock() []byte {
	block := make([]byte, 64)
	block[0], block[1] = 0x12, 0xEF
	block[7] = 0x12
	return block
}

func TestBusResetAfterTransfer(t *testing.T) {
	r := newRig()
	d := r.start(t)

	// no transfer yet: stay resident
	d.OnBusReset()
	if err := d.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if d.State() != boot.StateBootloader {
		t.Fatalf("state = %s after idle bus reset", d.State())
	}

	if err := d.DFU().WriteBlock(0, firstBlock()); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}
	d.OnBusReset()

	// deferred until the main loop runs
	if d.State() != boot.StatePendingReset || len(r.board.Entered) != 0 {
		t.Fatalf("state = %s, entered = %v", d.State(), r.board.Entered)
	}
	if err := d.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if d.State() != boot.StateFirmwareActive || len(r.board.Entered) != 1 {
		t.Errorf("state = %s, entered = %v", d.State(), r.board.Entered)
	}
	if d.Store().Config().FlashSuccess {
		t.Error("flash_success set by the update agent")
	}
}

func TestApplicationHooks(t *testing.T) {
	r := newRig()
	d := r.start(t)
	if err := d.DFU().WriteBlock(0, firstBlock()); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}
	d.OnBusReset()
	if err := d.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if _, err := d.Application().OnGetStatus(); err != nil {
		t.Fatalf("OnGetStatus: %v", err)
	}
	if !d.Store().Config().FlashSuccess {
		t.Error("GetStatus in the application should confirm the image")
	}

	d.Application().Detach()
	d.OnBusReset()
	if r.board.Resets != 1 {
		t.Errorf("Resets = %d, want 1", r.board.Resets)
	}
}

func TestCommandsServicedByStep(t *testing.T) {
	r := newRig()
	d := r.start(t)

	packet, _ := protocol.BuildSetup(protocol.CmdSetSerialNumber, 1234)
	if err := d.OnSetup(packet); err != nil {
		t.Fatalf("OnSetup: %v", err)
	}
	if d.Store().Config().SerialNumber != 1234 || r.link.acks != 1 {
		t.Errorf("serial = %d, acks = %d", d.Store().Config().SerialNumber, r.link.acks)
	}

	key := imagecipher.Key{9, 8, 7, 6}
	packet, _ = protocol.BuildSetup(protocol.CmdSetCryptoKey, 0)
	if err := d.OnSetup(packet); err != nil {
		t.Fatalf("OnSetup: %v", err)
	}
	d.OnTransferComplete(r.link.next, command.Outcome{OK: true, Data: key.Bytes()})
	if d.Store().Config().HasSigningKey() {
		t.Fatal("data stage acted on before the main loop")
	}
	if err := d.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if d.Store().Config().SigningKey != key {
		t.Errorf("key = %08X, want %08X", d.Store().Config().SigningKey, key)
	}

	if err := d.OnSetup([]byte{0x21, 0x7F, 0, 0, 0, 0, 0, 0}); err == nil {
		t.Error("unknown command accepted")
	}
	if cmd, status := d.Dispatcher().Latch().Get(); cmd != 0x7F || status != protocol.ErrUnknownCmd {
		t.Errorf("latch = (%s, %s)", cmd, status)
	}
	if r.link.stalls != 1 {
		t.Errorf("stalls = %d, want 1", r.link.stalls)
	}
}
