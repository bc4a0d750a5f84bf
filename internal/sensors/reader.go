package sensors

import (
	"log"

	"github.com/cornellrocketryteam/control-core/internal/flightpacket"
)

// Reader aggregates the individual sensor modules into the single
// flight.SensorReader the FSM drives each cycle. Only the altimeter's
// read error is propagated — it alone drives the VALID/INVALID latch
// policy (spec.md §4.1); IMU/magnetometer/GPS failures are logged and
// otherwise leave the packet's prior values in place for this cycle,
// matching the original source's read_all "log and continue" shape.
type Reader struct {
	Altimeter    Module
	IMU          Module
	Magnetometer Module
	GPS          Module
	Logger       *log.Logger
}

// Init initializes every module, stopping at the first error.
func (r *Reader) Init() error {
	for _, m := range []Module{r.Altimeter, r.IMU, r.Magnetometer, r.GPS} {
		if m == nil {
			continue
		}
		if err := m.Init(); err != nil {
			return err
		}
	}
	return nil
}

// Read implements flight.SensorReader.
func (r *Reader) Read(p *flightpacket.Packet) error {
	altErr := r.Altimeter.Read(p)

	if r.IMU != nil {
		if err := r.IMU.Read(p); err != nil {
			r.Logger.Printf("imu read failed: %v", err)
		}
	}
	if r.Magnetometer != nil {
		if err := r.Magnetometer.Read(p); err != nil {
			r.Logger.Printf("magnetometer read failed: %v", err)
		}
	}
	if r.GPS != nil {
		if err := r.GPS.Read(p); err != nil {
			r.Logger.Printf("gps read failed: %v", err)
		}
	}

	return altErr
}
