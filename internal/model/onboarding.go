package model

import (
	"bytes"
	"encoding/json"
)

// Goal 引导第一步选择的使用目标，空字符串表示未选择（JSON 中为 null）
type Goal string

const (
	GoalUnset         Goal = ""
	GoalGrowBusiness  Goal = "grow_business"
	GoalBuildBrand    Goal = "build_brand"
	GoalStayConnected Goal = "stay_connected"
)

// ParseGoal 校验目标取值，只接受枚举值
func ParseGoal(s string) (Goal, bool) {
	switch g := Goal(s); g {
	case GoalGrowBusiness, GoalBuildBrand, GoalStayConnected:
		return g, true
	default:
		return GoalUnset, false
	}
}

func (g Goal) MarshalJSON() ([]byte, error) {
	if g == GoalUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(g))
}

func (g *Goal) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*g = GoalUnset
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*g = Goal(s)
	return nil
}

type Profile struct {
	LinkedinURL string `json:"linkedin_url"`
	WebsiteURL  string `json:"website_url"`
	Summary     string `json:"summary"`
}

// Voice 语气偏好，三个 0-100 的滑块
type Voice struct {
	Length int `json:"length"`
	Tone   int `json:"tone"`
	Emoji  int `json:"emoji"`
}

type Knowledge struct {
	Files       []string `json:"files"`
	ProductName string   `json:"product_name"`
	WebsiteURL  string   `json:"website_url"`
}

type Trial struct {
	Subscribed bool    `json:"subscribed"`
	InviteCode *string `json:"invite_code,omitempty"`
}

// OnboardingSession 引导流程的全部答案与当前步骤，整体持久化
type OnboardingSession struct {
	CurrentStep int       `json:"current_step"`
	Goal        Goal      `json:"goal"`
	Profile     Profile   `json:"profile"`
	Voice       Voice     `json:"voice"`
	Knowledge   Knowledge `json:"knowledge"`
	Connections []string  `json:"connections"`
	Trial       Trial     `json:"trial"`
	Completed   bool      `json:"completed"`
}

// DefaultOnboardingSession 返回一份全新的默认会话，切片均为非 nil 空切片
func DefaultOnboardingSession() OnboardingSession {
	return OnboardingSession{
		CurrentStep: 1,
		Goal:        GoalUnset,
		Profile:     Profile{},
		Voice: Voice{
			Length: 50,
			Tone:   50,
			Emoji:  33,
		},
		Knowledge: Knowledge{
			Files: []string{},
		},
		Connections: []string{},
		Trial: Trial{
			Subscribed: false,
		},
		Completed: false,
	}
}

// Clone 深拷贝，调用方拿到的快照不会与内部状态共享切片
func (s OnboardingSession) Clone() OnboardingSession {
	out := s
	if s.Knowledge.Files != nil {
		out.Knowledge.Files = append([]string{}, s.Knowledge.Files...)
	}
	if s.Connections != nil {
		out.Connections = append([]string{}, s.Connections...)
	}
	if s.Trial.InviteCode != nil {
		code := *s.Trial.InviteCode
		out.Trial.InviteCode = &code
	}
	return out
}

// HasConnection 判断平台是否已连接
func (s OnboardingSession) HasConnection(platform string) bool {
	for _, p := range s.Connections {
		if p == platform {
			return true
		}
	}
	return false
}

// ========== 局部更新 ==========
// 字段为 nil 表示不修改

type ProfilePatch struct {
	LinkedinURL *string `json:"linkedin_url"`
	WebsiteURL  *string `json:"website_url"`
	Summary     *string `json:"summary"`
}

type VoicePatch struct {
	Length *int `json:"length"`
	Tone   *int `json:"tone"`
	Emoji  *int `json:"emoji"`
}

type KnowledgePatch struct {
	Files       *[]string `json:"files"`
	ProductName *string   `json:"product_name"`
	WebsiteURL  *string   `json:"website_url"`
}

type TrialPatch struct {
	Subscribed *bool   `json:"subscribed"`
	InviteCode *string `json:"invite_code"`
}

func (p Profile) Merge(patch ProfilePatch) Profile {
	if patch.LinkedinURL != nil {
		p.LinkedinURL = *patch.LinkedinURL
	}
	if patch.WebsiteURL != nil {
		p.WebsiteURL = *patch.WebsiteURL
	}
	if patch.Summary != nil {
		p.Summary = *patch.Summary
	}
	return p
}

func (v Voice) Merge(patch VoicePatch) Voice {
	if patch.Length != nil {
		v.Length = *patch.Length
	}
	if patch.Tone != nil {
		v.Tone = *patch.Tone
	}
	if patch.Emoji != nil {
		v.Emoji = *patch.Emoji
	}
	return v
}

func (k Knowledge) Merge(patch KnowledgePatch) Knowledge {
	if patch.Files != nil {
		k.Files = append([]string{}, (*patch.Files)...)
	}
	if patch.ProductName != nil {
		k.ProductName = *patch.ProductName
	}
	if patch.WebsiteURL != nil {
		k.WebsiteURL = *patch.WebsiteURL
	}
	return k
}

func (t Trial) Merge(patch TrialPatch) Trial {
	if patch.Subscribed != nil {
		t.Subscribed = *patch.Subscribed
	}
	if patch.InviteCode != nil {
		code := *patch.InviteCode
		t.InviteCode = &code
	}
	return t
}
