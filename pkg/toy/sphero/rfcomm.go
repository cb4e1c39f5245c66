package sphero

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/edaniels/golog"
	"github.com/kr/pty"
	"github.com/pkg/errors"
)

// rfcommDevice is the node we ask rfcomm to create.
const rfcommDevice = "/dev/rfcomm0"

type rfcommSession struct {
	cmd *exec.Cmd
}

// bindRFCOMM spawns `rfcomm connect` for the given Bluetooth address
// and waits for the device node to appear. rfcomm only holds the link
// while running in the foreground on a terminal, so wrap it with a pty.
func bindRFCOMM(ctx context.Context, device, addr string, logger golog.Logger) (*rfcommSession, error) {
	logger.Infof("Binding %s to %s", device, addr)
	cmd := exec.Command("rfcomm", "connect", device, addr)
	f, err := pty.Start(cmd)
	if err != nil {
		return nil, errors.Wrap(err, "starting rfcomm")
	}
	go io.Copy(os.Stdout, f)

	for i := 0; i < 100; i++ {
		if _, err := os.Stat(device); err == nil {
			logger.Infof("%s is up", device)
			return &rfcommSession{cmd: cmd}, nil
		}
		select {
		case <-ctx.Done():
			_ = cmd.Process.Kill()
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	_ = cmd.Process.Kill()
	return nil, errors.Errorf("%s did not appear, is the ball awake?", device)
}

func (s *rfcommSession) Close() error {
	if err := s.cmd.Process.Kill(); err != nil {
		return err
	}
	_ = s.cmd.Wait()
	return nil
}
