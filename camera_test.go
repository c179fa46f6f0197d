package tintin

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kevmo314/go-tintin/pkg/params"
)

const (
	uvcPID  = 0x9103
	bulkPID = 0x9104
)

var initAddresses = []uint32{0x2D06, 0x2D04, 0x2D05, 0x2D0D, 0x2D0E, 0x2D0F}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCamera(t *testing.T, board *fakeBoard, opts ...Option) *Camera {
	t.Helper()
	c, err := New(board, append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)
	return c
}

type mockBase struct {
	mock.Mock
}

func (m *mockBase) Init(registry *params.Registry, programmer params.Programmer) error {
	if err := m.Called().Error(0); err != nil {
		return err
	}
	return HostBase{}.Init(registry, programmer)
}

func (m *mockBase) InitStartParams(registry *params.Registry) error {
	return m.Called().Error(0)
}

func TestNewVideoClass(t *testing.T) {
	board := newFakeBoard(uvcPID)
	c := newCamera(t, board)

	assert.Equal(t, StateReady, c.State())
	assert.Equal(t, BackendVideoClass, c.Backend().Kind())
	assert.Equal(t, initAddresses, board.writes)

	vc, err := c.VideoClass()
	require.NoError(t, err)
	assert.NotNil(t, vc.Streamer)

	_, err = c.Bulk()
	assert.ErrorIs(t, err, ErrWrongBackend)

	v, err := c.Get(ParamMixVoltage)
	require.NoError(t, err)
	assert.Equal(t, uint32(1500), v)
	v, err = c.Get(ParamPVDD)
	require.NoError(t, err)
	assert.Equal(t, uint32(3300), v)
}

func TestNewBulk(t *testing.T) {
	board := newFakeBoard(bulkPID)
	c := newCamera(t, board)

	assert.Equal(t, BackendBulk, c.Backend().Kind())
	assert.Equal(t, initAddresses, board.writes)
	assert.Equal(t, uint32(0x94), board.regs[0x2D05])
	assert.Equal(t, uint32(0xB8), board.regs[0x2D0E])

	b, err := c.Bulk()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x82), b.Streamer.Endpoint())

	_, err = c.VideoClass()
	assert.ErrorIs(t, err, ErrWrongBackend)
}

func TestNewRegistersParameters(t *testing.T) {
	c := newCamera(t, newFakeBoard(uvcPID))
	ps, err := c.Parameters()
	require.NoError(t, err)

	var ids []string
	for _, p := range ps {
		ids = append(ids, p.ID())
	}
	assert.Equal(t, []string{
		ParamBlkHeaderEn,
		ParamFrameRate,
		ParamIllumPower,
		ParamIllumPowerPercentage,
		ParamMixVoltage,
		ParamPixelDataSize,
		ParamPVDD,
		ParamTillumSlaveAddr,
	}, ids)
}

func TestNewStopsAtFailedWrite(t *testing.T) {
	for _, pid := range []uint16{uvcPID, bulkPID} {
		board := newFakeBoard(pid)
		board.failWrite = 4

		c, err := New(board, WithLogger(quietLogger()))
		require.Error(t, err)
		assert.ErrorIs(t, err, errInjected)
		assert.Equal(t, initAddresses[:4], board.writes, "writes 5 and 6 must not be attempted")
		assert.Equal(t, StateUnusable, c.State())

		_, err = c.Get(ParamMixVoltage)
		assert.ErrorIs(t, err, ErrUnusable)
		assert.ErrorIs(t, c.Set(ParamMixVoltage, 1500), ErrUnusable)
		assert.ErrorIs(t, c.Start(), ErrUnusable)
		assert.Len(t, board.writes, 4, "unusable camera must not touch hardware")
	}
}

func TestNewOtherProductIsBulk(t *testing.T) {
	board := newFakeBoard(0x9105)
	c, err := New(board, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, StateReady, c.State())
	require.NotNil(t, c.Backend())
	assert.Equal(t, BackendBulk, c.Backend().Kind())
	assert.Equal(t, initAddresses, board.writes)
}

func TestNewBackendNotInitialized(t *testing.T) {
	uvc := newFakeBoard(uvcPID)
	uvc.probeErr = errInjected
	_, err := New(uvc, WithLogger(quietLogger()))
	assert.ErrorIs(t, err, ErrBackendNotInitialized)
	assert.Empty(t, uvc.writes)

	bulk := newFakeBoard(bulkPID)
	bulk.claimErr = errInjected
	_, err = New(bulk, WithLogger(quietLogger()))
	assert.ErrorIs(t, err, ErrBackendNotInitialized)
	assert.Empty(t, bulk.writes)
}

func TestNewProductIDsFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BulkProductID = 0x1234
	c, err := New(newFakeBoard(0x1234), WithConfig(cfg), WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, BackendBulk, c.Backend().Kind())
}

func TestNewBaseInitFailure(t *testing.T) {
	base := &mockBase{}
	base.On("Init").Return(errors.New("base failed"))

	board := newFakeBoard(uvcPID)
	c, err := New(board, WithBase(base), WithLogger(quietLogger()))
	require.Error(t, err)
	assert.Equal(t, initAddresses, board.writes)
	assert.Equal(t, StateUnusable, c.State())
	base.AssertExpectations(t)
}

func TestStart(t *testing.T) {
	tests := []struct {
		name      string
		pid       uint16
		headerEn  uint32
		backendOK func(*Camera) error
	}{
		{"video class keeps block header", uvcPID, 1, func(c *Camera) error { _, err := c.VideoClass(); return err }},
		{"bulk disables block header", bulkPID, 0, func(c *Camera) error { _, err := c.Bulk(); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCamera(t, newFakeBoard(tt.pid))
			require.NoError(t, c.Start())
			assert.Equal(t, StateStarted, c.State())
			require.NoError(t, tt.backendOK(c))

			addr, err := c.Get(ParamTillumSlaveAddr)
			require.NoError(t, err)
			assert.Equal(t, uint32(0x72), addr)

			en, err := c.Get(ParamBlkHeaderEn)
			require.NoError(t, err)
			assert.Equal(t, tt.headerEn, en)
		})
	}
}

func TestStartBaseFailure(t *testing.T) {
	base := &mockBase{}
	base.On("Init").Return(nil)
	base.On("InitStartParams").Return(errors.New("no start params"))

	c := newCamera(t, newFakeBoard(bulkPID), WithBase(base))
	require.Error(t, c.Start())
	assert.Equal(t, StateReady, c.State())

	addr, err := c.Get(ParamTillumSlaveAddr)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), addr)
	base.AssertExpectations(t)
}

func TestSetParameter(t *testing.T) {
	board := newFakeBoard(uvcPID)
	c := newCamera(t, board)

	require.NoError(t, c.Set(ParamMixVoltage, 1600))
	assert.Equal(t, uint32(0x96), board.regs[0x2D05])
	v, err := c.Get(ParamMixVoltage)
	require.NoError(t, err)
	assert.Equal(t, uint32(1600), v)

	assert.ErrorIs(t, c.Set(ParamMixVoltage, 2100), params.ErrOutOfRange)
	assert.ErrorIs(t, c.Set("no_such_param", 1), params.ErrUnknownParameter)
}

func TestSetIlluminationPercentage(t *testing.T) {
	board := newFakeBoard(bulkPID)
	c := newCamera(t, board)

	require.NoError(t, c.Set(ParamIllumPowerPercentage, 50))
	assert.Equal(t, IlluminationPowerToRaw(1100), board.regs[0x2D10])

	pct, err := c.Get(ParamIllumPowerPercentage)
	require.NoError(t, err)
	assert.Equal(t, IlluminationPowerFromRaw(IlluminationPowerToRaw(1100))*100/2200, pct)
}

func TestStreaming(t *testing.T) {
	board := newFakeBoard(uvcPID)
	c := newCamera(t, board)
	require.ErrorIs(t, c.StartStreaming(), ErrNotStarted)
	require.NoError(t, c.Start())
	require.NoError(t, c.SetFrameSize(sizeOf(160, 120)))
	require.NoError(t, c.StartStreaming())
	assert.Equal(t, 0x81, board.streamArg[0])

	require.NoError(t, c.Close())
	assert.True(t, board.closed)
}
