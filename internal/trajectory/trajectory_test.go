package trajectory

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/banshee-data/posetrack/internal/pose"
)

func detections(counts ...int) []DetectionSet {
	out := make([]DetectionSet, len(counts))
	for i, n := range counts {
		poses := make([]pose.Pose2D, n)
		for j := range poses {
			poses[j] = pose.Pose2D{X: float64(j), Y: float64(i)}
		}
		out[i] = DetectionSet{Time: float64(i) * 0.1, Poses: poses}
	}
	return out
}

func TestValidateDetections(t *testing.T) {
	t.Parallel()

	backwards := detections(1, 1)
	backwards[1].Time = -1
	nonFinite := detections(2, 2)
	nonFinite[1].Poses[1].Orientation = math.NaN()

	tests := []struct {
		name      string
		ds        []DetectionSet
		wantCount int
		wantErr   bool
	}{
		{"empty series has no objects", nil, 0, false},
		{"constant cardinality", detections(3, 3, 3), 3, false},
		{"cardinality change", detections(2, 2, 1), 0, true},
		{"time going backwards", backwards, 0, true},
		{"non-finite pose", nonFinite, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ValidateDetections(tt.ds)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedInput) {
					t.Fatalf("expected ErrMalformedInput, got %v", err)
				}
				if errors.Is(err, ErrAlignment) {
					t.Errorf("malformed input must not match ErrAlignment")
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateDetections failed: %v", err)
			}
			if n != tt.wantCount {
				t.Errorf("object count = %d, want %d", n, tt.wantCount)
			}
		})
	}
}

func TestValidateDetections_ReasonNamesSample(t *testing.T) {
	t.Parallel()

	_, err := ValidateDetections(detections(2, 2, 1))
	var mie *MalformedInputError
	if !errors.As(err, &mie) {
		t.Fatalf("expected *MalformedInputError, got %T", err)
	}
	if !strings.Contains(mie.Reason, "detection 2") {
		t.Errorf("reason %q does not name detection 2", mie.Reason)
	}
}

func TestAgentTrajectory_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		a       AgentTrajectory
		wantErr bool
	}{
		{"ordered with tie", AgentTrajectory{{Time: 0}, {Time: 0}, {Time: 1}}, false},
		{"backwards", AgentTrajectory{{Time: 1}, {Time: 0}}, true},
		{"infinite position", AgentTrajectory{{Time: 0, Pose: pose.Pose2D{X: math.Inf(1)}}}, true},
	}
	for _, tt := range tests {
		err := tt.a.Validate()
		if tt.wantErr && !errors.Is(err, ErrMalformedInput) {
			t.Errorf("%s: expected ErrMalformedInput, got %v", tt.name, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
	}
}

func TestAgentTrajectory_Channels(t *testing.T) {
	t.Parallel()

	a := AgentTrajectory{
		{Time: 0, Pose: pose.Pose2D{X: 1, Y: 2, Orientation: 3}},
		{Time: 1, Pose: pose.Pose2D{X: 4, Y: 5, Orientation: 6}},
	}
	xs, ys, th := a.Channels()
	if !reflect.DeepEqual(xs, []float64{1, 4}) || !reflect.DeepEqual(ys, []float64{2, 5}) ||
		!reflect.DeepEqual(th, []float64{3, 6}) {
		t.Errorf("Channels() = %v %v %v", xs, ys, th)
	}
	if times := a.Times(); !reflect.DeepEqual(times, []float64{0, 1}) {
		t.Errorf("Times() = %v, want [0 1]", times)
	}
}

func TestCloneDetections_DoesNotAlias(t *testing.T) {
	t.Parallel()

	src := detections(2, 2)
	dst := CloneDetections(src)
	dst[0].Poses[0].X = 99
	if src[0].Poses[0].X != 0 {
		t.Errorf("clone aliases the source: X = %v", src[0].Poses[0].X)
	}
}

func TestObjectSeries(t *testing.T) {
	t.Parallel()

	s := ObjectSeries(detections(3, 3), 2)
	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
	if s[0].Pose.X != 2 || s[1].Pose.Y != 1 || s[1].Time != 0.1 {
		t.Errorf("ObjectSeries = %v", s)
	}
}

func TestAlignmentError_Messages(t *testing.T) {
	t.Parallel()

	lenErr := &AlignmentError{AgentLen: 3, DetectionLen: 4, Index: -1}
	if !strings.Contains(lenErr.Error(), "agent has 3 samples, detections have 4") {
		t.Errorf("length message = %q", lenErr.Error())
	}
	if !errors.Is(lenErr, ErrAlignment) {
		t.Errorf("AlignmentError must match ErrAlignment")
	}

	timeErr := &AlignmentError{AgentLen: 2, DetectionLen: 2, Index: 1, AgentTime: 1, DetectionTime: 2}
	if !strings.Contains(timeErr.Error(), "sample 1") {
		t.Errorf("time message = %q", timeErr.Error())
	}
}
