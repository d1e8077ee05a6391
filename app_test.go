package main

import (
	"testing"
	"time"

	"DialTimer/control"
	"DialTimer/dial"
	"DialTimer/geometry"
	"DialTimer/timer"
	"DialTimer/ui"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type fakeSender struct{ sent []string }

func (f *fakeSender) Send(title, body string) { f.sent = append(f.sent, title) }

type fakeSound struct{ alarms, clicks int }

func (f *fakeSound) PlayAlarm() { f.alarms++ }
func (f *fakeSound) Click() bool {
	f.clicks++
	return true
}

type appTestSuite struct {
	suite.Suite
	assert  *assert.Assertions
	fyneApp fyne.App
	clock   *timer.ManualClock
	sender  *fakeSender
	sound   *fakeSound
	app     *AppManager
}

func (suite *appTestSuite) SetupTest() {
	suite.assert = assert.New(suite.T())
	suite.fyneApp = test.NewApp()
	suite.clock = timer.NewManualClock(time.Unix(0, 0))
	suite.sender = &fakeSender{}
	suite.sound = &fakeSound{}

	cfg := timer.DefaultConfig()
	suite.app = NewAppManager(cfg, suite.sender, suite.sound, suite.clock)
	suite.app.Attach(ui.NewDialView(cfg, suite.app.Circle(), suite.app), suite.clock)
}

func (suite *appTestSuite) TearDownTest() {
	suite.app.Shutdown()
	suite.fyneApp.Quit()
}

func (suite *appTestSuite) start(seconds int) {
	circle := suite.app.Circle()
	suite.Require().NoError(suite.app.handle(control.Command{Type: control.CmdDragStart, Point: circle.Top()}))
	p := circle.AngleToPoint(geometry.AngleForSeconds(seconds))
	suite.Require().NoError(suite.app.handle(control.Command{Type: control.CmdDragMove, Point: p}))
	suite.Require().NoError(suite.app.handle(control.Command{Type: control.CmdDragEnd, Point: p}))
}

func (suite *appTestSuite) TestCountdownNotifiesOnce() {
	suite.start(900)
	suite.assert.Equal(dial.StateRunning, suite.app.engine.State())
	suite.assert.Positive(suite.sound.clicks)

	due, ok := suite.app.scheduler.Pending()
	suite.assert.True(ok)
	suite.assert.True(time.Unix(900, 0).Equal(due))

	suite.clock.Advance(900 * time.Second)
	suite.assert.Equal([]string{"Time is up!"}, suite.sender.sent)
	suite.assert.Equal(1, suite.sound.alarms)

	suite.clock.Advance(time.Second)
	suite.assert.Equal(dial.StateIdle, suite.app.engine.State())
	suite.assert.Len(suite.sender.sent, 1)
}

func (suite *appTestSuite) TestNewDragCancelsNotification() {
	suite.start(60)
	suite.Require().NoError(suite.app.handle(control.Command{Type: control.CmdDragStart, Point: suite.app.Circle().Top()}))
	_, ok := suite.app.scheduler.Pending()
	suite.assert.False(ok)
}

func (suite *appTestSuite) TestPauseToggle() {
	suite.start(10)
	suite.clock.Advance(2 * time.Second)

	suite.assert.NoError(suite.app.handle(control.Command{Type: control.CmdPause}))
	s := suite.app.engine.Snapshot()
	suite.assert.False(s.Ticking)
	suite.assert.Equal(8, s.Remaining)
	_, ok := suite.app.scheduler.Pending()
	suite.assert.False(ok)

	suite.clock.Advance(time.Minute)
	suite.assert.Equal(8, suite.app.engine.Snapshot().Remaining)
	suite.assert.Empty(suite.sender.sent)

	suite.assert.NoError(suite.app.handle(control.Command{Type: control.CmdPause}))
	suite.assert.True(suite.app.engine.Snapshot().Ticking)
	due, ok := suite.app.scheduler.Pending()
	suite.assert.True(ok)
	suite.assert.Equal(8*time.Second, due.Sub(suite.clock.Now()))
}

func (suite *appTestSuite) TestPauseWhileIdleIsNoOp() {
	suite.assert.NoError(suite.app.handle(control.Command{Type: control.CmdPause}))
	suite.assert.Equal(dial.StateIdle, suite.app.engine.State())
}

func (suite *appTestSuite) TestSuspendResumeCatchesUp() {
	suite.start(10)
	suite.assert.NoError(suite.app.handle(control.Command{Type: control.CmdSuspend, At: suite.clock.Now()}))
	suite.clock.Advance(3 * time.Second)
	suite.assert.NoError(suite.app.handle(control.Command{Type: control.CmdResume, At: suite.clock.Now()}))
	suite.assert.Equal(3.0, suite.app.engine.Snapshot().Carry)
}

func (suite *appTestSuite) TestResetThroughCommandLoop() {
	suite.start(30)
	reply := make(chan error, 1)
	suite.app.EnqueueCommand(control.Command{Type: control.CmdReset, Reply: reply})
	select {
	case err := <-reply:
		suite.assert.NoError(err)
	case <-time.After(time.Second):
		suite.FailNow("command loop did not reply")
	}
	suite.assert.Equal(dial.StateIdle, suite.app.engine.State())
	_, ok := suite.app.scheduler.Pending()
	suite.assert.False(ok)
}

func (suite *appTestSuite) TestTickCommandRunsCallback() {
	called := make(chan struct{}, 1)
	suite.app.DispatchTick(func() { called <- struct{}{} })
	select {
	case <-called:
	case <-time.After(time.Second):
		suite.FailNow("tick was not dispatched")
	}
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(appTestSuite))
}
