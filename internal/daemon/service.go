package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	armouryv1 "armoury/api/armoury/v1"
	"armoury/internal/battery"
	"armoury/internal/execx"
	"armoury/internal/monitor"
	"armoury/internal/power"
	"armoury/internal/profiles"
	"armoury/internal/stats"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// PingReply is the Ping answer of a healthy daemon.
const PingReply = "pong"

// PowerApplier switches power presets.
type PowerApplier interface {
	Apply(ctx context.Context, name string) (power.ApplyResult, error)
}

// ChargeLimiter sets the battery charge threshold.
type ChargeLimiter interface {
	SetLimit(ctx context.Context, limit int) (string, error)
}

// ProfileApplier applies a stored system profile by name.
type ProfileApplier interface {
	ApplyProfileLocal(ctx context.Context, name string) (profiles.ApplyResult, error)
}

// StatusSource provides the readings returned by GetStatus and the
// session summary.
type StatusSource interface {
	Latest() (monitor.Sample, bool)
	Step(ctx context.Context) monitor.Sample
	Session() *stats.Session
}

// Handlers are the components the service drives. Nil members make the
// corresponding RPC fail with FailedPrecondition.
type Handlers struct {
	Power    PowerApplier
	Battery  ChargeLimiter
	Profiles ProfileApplier
	Monitor  StatusSource
	Logger   *slog.Logger
}

// service implements armoury.v1.Armoury.
type service struct {
	armouryv1.UnimplementedArmouryServer

	h   Handlers
	log *slog.Logger
}

func newService(h Handlers) *service {
	log := h.Logger
	if log == nil {
		log = slog.Default()
	}
	return &service{h: h, log: log}
}

func (s *service) Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String(PingReply), nil
}

func (s *service) GetVersion(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String(power.Version), nil
}

func (s *service) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if s.h.Monitor == nil {
		return nil, status.Error(codes.FailedPrecondition, "monitor not running")
	}
	sample, ok := s.h.Monitor.Latest()
	if !ok {
		sample = s.h.Monitor.Step(ctx)
	}
	return newStruct(statusFields(sample))
}

// statusFields flattens a sample; missing readings become null.
func statusFields(sample monitor.Sample) map[string]any {
	m := map[string]any{
		"cpu_temperature": nil,
		"gpu_temperature": nil,
		"battery_percent": nil,
		"refresh_rate":    nil,
		"on_ac_power":     sample.OnAC,
		"power_profile":   sample.Profile,
		"gaming_active":   sample.Gaming,
		"cpu_load":        sample.CPULoad,
	}
	if sample.HasCPUTemp {
		m["cpu_temperature"] = sample.CPUTemp
	}
	if sample.HasGPUTemp {
		m["gpu_temperature"] = sample.GPUTemp
	}
	if sample.HasBattery {
		m["battery_percent"] = sample.Battery
	}
	if sample.RefreshRate > 0 {
		m["refresh_rate"] = sample.RefreshRate
	}
	return m
}

func (s *service) SetPowerProfile(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	name := req.GetValue()
	if _, ok := power.LookupPreset(name); !ok {
		return nil, status.Errorf(codes.InvalidArgument, "invalid profile: %s", name)
	}
	if s.h.Power == nil {
		return nil, status.Error(codes.FailedPrecondition, power.ErrNoBackend.Error())
	}
	res, err := s.h.Power.Apply(ctx, name)
	if err != nil {
		s.log.Error("set power profile", "profile", name, "err", err)
		return nil, toStatus(err)
	}
	out := map[string]any{"ok": true, "message": res.Message, "refresh_set": res.RefreshSet}
	if res.RefreshError != nil {
		out["refresh_error"] = res.RefreshError.Error()
	}
	s.log.Info("power profile set", "profile", res.Preset.Name)
	return newStruct(out)
}

func (s *service) SetChargeLimit(ctx context.Context, req *wrapperspb.Int32Value) (*structpb.Struct, error) {
	limit := int(req.GetValue())
	if !battery.ValidLimit(limit) {
		return nil, status.Error(codes.InvalidArgument, battery.ErrInvalidLimit.Error())
	}
	if s.h.Battery == nil {
		return nil, status.Error(codes.FailedPrecondition, battery.ErrNotSupported.Error())
	}
	msg, err := s.h.Battery.SetLimit(ctx, limit)
	if err != nil {
		s.log.Error("set charge limit", "limit", limit, "err", err)
		return nil, toStatus(err)
	}
	return newStruct(map[string]any{"ok": true, "message": msg})
}

func (s *service) ApplySystemProfile(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if s.h.Profiles == nil {
		return nil, status.Error(codes.FailedPrecondition, "profile store unavailable")
	}
	res, err := s.h.Profiles.ApplyProfileLocal(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	failed := make([]any, len(res.Failed))
	for i, f := range res.Failed {
		failed[i] = f
	}
	return newStruct(map[string]any{"ok": res.OK(), "message": res.Message(), "failed_steps": failed})
}

func (s *service) GetSessionSummary(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	if s.h.Monitor == nil || s.h.Monitor.Session() == nil {
		return nil, status.Error(codes.FailedPrecondition, "monitor not running")
	}
	return EncodeStruct(s.h.Monitor.Session().Summary())
}

// toStatus maps domain errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, profiles.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, battery.ErrInvalidLimit):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, power.ErrNoBackend),
		errors.Is(err, battery.ErrNotSupported),
		errors.Is(err, execx.ErrNotFound):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return st, nil
}

// EncodeStruct converts any JSON-encodable value into a Struct using its
// json tags.
func EncodeStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return newStruct(m)
}

// DecodeStruct fills v from st using v's json tags.
func DecodeStruct(st *structpb.Struct, v any) error {
	raw, err := json.Marshal(st.AsMap())
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
