package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/leonardotrapani/echoscribe/internal/bus"
	"github.com/leonardotrapani/echoscribe/internal/pipeline"
	"github.com/leonardotrapani/echoscribe/internal/transcriber"
)

// send runs one bus command and turns ERR responses into errors.
func send(cmd byte, arg string) (bus.Response, error) {
	line, err := bus.SendCommand(cmd, arg)
	if err != nil {
		return bus.Response{}, fmt.Errorf("daemon not reachable (is 'echoscribe serve' running?): %w", err)
	}
	resp, err := bus.ParseResponse(line)
	if err != nil {
		return bus.Response{}, err
	}
	if resp.Kind == bus.KindErr {
		return resp, errors.New(resp.Reason)
	}
	return resp, nil
}

func fetchSnapshot() (pipeline.Snapshot, error) {
	resp, err := send(bus.CmdStatus, "")
	if err != nil {
		return pipeline.Snapshot{}, err
	}
	snap, err := pipeline.SnapshotFromFields(resp.Fields)
	if err != nil {
		return pipeline.Snapshot{}, err
	}
	if snap.Status == pipeline.Success {
		if snap.Transcript, err = fetchTranscript(); err != nil {
			return pipeline.Snapshot{}, err
		}
	}
	return snap, nil
}

// fetchTranscript returns the transcript, or the failure carried in the
// marker convention as an error.
func fetchTranscript() (string, error) {
	resp, err := send(bus.CmdTranscript, "")
	if err != nil {
		return "", err
	}
	result := transcriber.ParseMarked(resp.Text)
	if !result.OK() {
		return "", result.Err
	}
	return result.Text, nil
}

// waitSettled polls until the daemon leaves Processing.
func waitSettled(timeout time.Duration) (pipeline.Snapshot, error) {
	deadline := time.Now().Add(timeout)
	for {
		resp, err := send(bus.CmdStatus, "")
		if err != nil {
			return pipeline.Snapshot{}, err
		}
		snap, err := pipeline.SnapshotFromFields(resp.Fields)
		if err != nil {
			return pipeline.Snapshot{}, err
		}
		if snap.Status != pipeline.Processing {
			if snap.Status == pipeline.Success {
				snap.Transcript, err = fetchTranscript()
			}
			return snap, err
		}
		if time.Now().After(deadline) {
			return snap, fmt.Errorf("still processing after %v", timeout)
		}
		time.Sleep(250 * time.Millisecond)
	}
}

// busSource feeds the watch view over the control socket.
type busSource struct{}

func (busSource) Fetch() (pipeline.Snapshot, error) {
	return fetchSnapshot()
}

func (busSource) Send(cmd byte) error {
	_, err := send(cmd, "")
	return err
}
