package timer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type manualClockTestSuite struct {
	suite.Suite
	assert *assert.Assertions
	clock  *ManualClock
}

func (suite *manualClockTestSuite) SetupTest() {
	suite.assert = assert.New(suite.T())
	suite.clock = NewManualClock(time.Unix(0, 0))
}

func (suite *manualClockTestSuite) TestEveryFiresPerPeriod() {
	count := 0
	h, err := suite.clock.Every(time.Second, func() { count++ })
	suite.assert.NoError(err)

	suite.clock.Advance(999 * time.Millisecond)
	suite.assert.Equal(0, count)
	suite.clock.Advance(time.Millisecond)
	suite.assert.Equal(1, count)
	suite.clock.Advance(3 * time.Second)
	suite.assert.Equal(4, count)

	h.Stop()
	h.Stop()
	suite.clock.Advance(5 * time.Second)
	suite.assert.Equal(4, count)
	suite.assert.Equal(0, suite.clock.Active())
}

func (suite *manualClockTestSuite) TestInvalidPeriod() {
	_, err := suite.clock.Every(0, func() {})
	suite.assert.ErrorIs(err, ErrInvalidPeriod)
}

func (suite *manualClockTestSuite) TestAfterFuncFiresOnce() {
	count := 0
	suite.clock.AfterFunc(2*time.Second, func() { count++ })
	suite.clock.Advance(10 * time.Second)
	suite.assert.Equal(1, count)
	suite.assert.True(time.Unix(10, 0).Equal(suite.clock.Now()))
}

func (suite *manualClockTestSuite) TestCallbackCanRescheduleItself() {
	start := suite.clock.Now()
	var fired []time.Duration
	var h Handle
	h, _ = suite.clock.Every(time.Second, func() {
		fired = append(fired, suite.clock.Now().Sub(start))
		h.Stop()
		suite.clock.AfterFunc(500*time.Millisecond, func() {
			fired = append(fired, suite.clock.Now().Sub(start))
		})
	})

	suite.assert.True(suite.clock.Tick())
	suite.assert.True(suite.clock.Tick())
	suite.assert.False(suite.clock.Tick())
	suite.assert.Equal([]time.Duration{time.Second, 1500 * time.Millisecond}, fired)
}

func TestManualClockTestSuite(t *testing.T) {
	suite.Run(t, new(manualClockTestSuite))
}

func TestRealClockDispatchesAndStops(t *testing.T) {
	calls := make(chan struct{}, 16)
	dispatched := make(chan struct{}, 16)
	clock := NewRealClock(func(fn func()) {
		dispatched <- struct{}{}
		fn()
	})

	h, err := clock.Every(5*time.Millisecond, func() { calls <- struct{}{} })
	assert.NoError(t, err)

	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("tick never arrived")
	}
	assert.NotEmpty(t, dispatched)
	h.Stop()
	h.Stop()
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00", FormatTime(-5))
	assert.Equal(t, "00:09", FormatTime(9))
	assert.Equal(t, "15:00", FormatTime(900))
	assert.Equal(t, "60:00", FormatTime(3600))
}

type configTestSuite struct {
	suite.Suite
	assert *assert.Assertions
}

func (suite *configTestSuite) SetupTest() {
	suite.assert = assert.New(suite.T())
}

type dirReader string

func (d dirReader) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(string(d), name))
}

func (suite *configTestSuite) TestEmbeddedDefaultsMatch() {
	data, err := os.ReadFile(filepath.Join("..", DefaultConfigPath))
	suite.assert.NoError(err)

	cfg, err := ParseConfig(data)
	suite.assert.NoError(err)
	suite.assert.Equal(DefaultConfig(), cfg)
}

func (suite *configTestSuite) TestPartialOverride() {
	cfg, err := ParseConfig([]byte("dial:\n  radius: 90\n  direction: ccw\n  tick_period: 250ms\n"))
	suite.assert.NoError(err)
	suite.assert.Equal(90.0, cfg.Dial.Radius)
	suite.assert.Equal(250*time.Millisecond, cfg.Dial.TickPeriod)
	suite.assert.Equal(500*time.Microsecond, cfg.Dial.FinishTickPeriod)

	circle, err := cfg.Circle()
	suite.assert.NoError(err)
	suite.assert.Equal(90.0, circle.Radius())
}

func (suite *configTestSuite) TestValidation() {
	bad := []string{
		"dial:\n  radius: 0\n",
		"dial:\n  direction: up\n",
		"dial:\n  tick_period: 0s\n",
		"palette:\n  highlight: red\n",
		"haptics:\n  enabled: true\n  per_second: 0\n",
		"dial: [1, 2]\n",
	}
	for _, doc := range bad {
		_, err := ParseConfig([]byte(doc))
		suite.assert.Error(err, doc)
	}
}

func (suite *configTestSuite) TestLoadConfigOverlay() {
	dir := suite.T().TempDir()
	suite.assert.NoError(os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	suite.assert.NoError(os.WriteFile(filepath.Join(dir, DefaultConfigPath), []byte("dial:\n  radius: 120\n"), 0o644))

	override := filepath.Join(dir, "user.yaml")
	suite.assert.NoError(os.WriteFile(override, []byte("notification:\n  title: Done\n"), 0o644))
	suite.T().Setenv(ConfigEnv, override)

	cfg := LoadConfig(dirReader(dir))
	suite.assert.Equal(120.0, cfg.Dial.Radius)
	suite.assert.Equal("Done", cfg.Notification.Title)

	suite.assert.NoError(os.WriteFile(override, []byte("dial:\n  radius: -1\n"), 0o644))
	cfg = LoadConfig(dirReader(dir))
	suite.assert.Equal(120.0, cfg.Dial.Radius)
}

func (suite *configTestSuite) TestParseColor() {
	c, err := ParseColor("#ec2c0f", 0.3)
	suite.assert.NoError(err)
	suite.assert.Equal(uint8(0xec), c.R)
	suite.assert.Equal(uint8(0x2c), c.G)
	suite.assert.Equal(uint8(0x0f), c.B)
	suite.assert.Equal(uint8(77), c.A)

	c, err = ParseColor("#fff", 2)
	suite.assert.NoError(err)
	suite.assert.Equal(uint8(255), c.A)
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(configTestSuite))
}
