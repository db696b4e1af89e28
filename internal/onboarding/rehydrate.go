package onboarding

import (
	"encoding/json"
	"errors"
	"fmt"

	"Knudge/internal/model"
)

// snapshotVersion 持久化格式版本，写入 envelope 便于以后迁移
const snapshotVersion = 0

// ErrCorruptSnapshot 快照无法解析，调用方拿到的是默认会话
var ErrCorruptSnapshot = errors.New("corrupt onboarding snapshot")

// envelope 持久化记录的外层结构：{"state": {...}, "version": 0}
type envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

// Encode 序列化整份会话快照
func Encode(session model.OnboardingSession) ([]byte, error) {
	state, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal onboarding session: %w", err)
	}

	return json.Marshal(envelope{State: state, Version: snapshotVersion})
}

// Rehydrate 把持久化快照按顶层字段浅合并到默认值上。
// 顶层字段缺失时保留默认值；子记录存在时整体替换默认子记录，子记录内缺失的字段不会从默认值补齐。
func Rehydrate(data []byte) (model.OnboardingSession, error) {
	session := model.DefaultOnboardingSession()
	if len(data) == 0 {
		return session, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return session, fmt.Errorf("%w: envelope: %v", ErrCorruptSnapshot, err)
	}
	if len(env.State) == 0 || string(env.State) == "null" {
		return session, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(env.State, &fields); err != nil {
		return session, fmt.Errorf("%w: state: %v", ErrCorruptSnapshot, err)
	}

	for name, raw := range fields {
		if err := mergeField(&session, name, raw); err != nil {
			return model.DefaultOnboardingSession(), fmt.Errorf("%w: field %q: %v", ErrCorruptSnapshot, name, err)
		}
	}

	return session, nil
}

// mergeField 每个字段都解码到零值上，而不是默认值上，保证子记录不做深合并
func mergeField(session *model.OnboardingSession, name string, raw json.RawMessage) error {
	switch name {
	case "current_step":
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		session.CurrentStep = v
	case "goal":
		var v model.Goal
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		session.Goal = v
	case "profile":
		var v model.Profile
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		session.Profile = v
	case "voice":
		var v model.Voice
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		session.Voice = v
	case "knowledge":
		var v model.Knowledge
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		session.Knowledge = v
	case "connections":
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		session.Connections = v
	case "trial":
		var v model.Trial
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		session.Trial = v
	case "completed":
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		session.Completed = v
	}
	// 未知字段忽略，兼容旧版本快照
	return nil
}
