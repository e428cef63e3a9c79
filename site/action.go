package site

import "encoding/json"

type ActionType string

const (
	ActionAddSection    ActionType = "add_section"
	ActionChangeTheme   ActionType = "change_theme"
	ActionModifySection ActionType = "modify_section"
	ActionDeleteSection ActionType = "delete_section"
	ActionUpdateContent ActionType = "update_content"
)

// Action is a typed mutation over a Site. Target is empty when no section matched.
type Action struct {
	Type        ActionType `json:"type"`
	Target      string     `json:"target,omitempty"`
	Data        ActionData `json:"data"`
	Description string     `json:"description"`
}

// HasTarget reports whether the action resolved an existing section.
func (a Action) HasTarget() bool { return a.Target != "" }

// ActionData is implemented by the payload types below, one per ActionType.
type ActionData interface {
	ActionType() ActionType
}

type AddSectionData struct {
	Type    string  `json:"type"`
	Order   int     `json:"order"`
	Content Content `json:"content"`
}

func (AddSectionData) ActionType() ActionType { return ActionAddSection }

type ThemeChangeData struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

func (ThemeChangeData) ActionType() ActionType { return ActionChangeTheme }

type ModifySectionData struct {
	SectionType string  `json:"sectionType"`
	Details     Details `json:"details"`
}

func (ModifySectionData) ActionType() ActionType { return ActionModifySection }

type DeleteSectionData struct {
	SectionType string `json:"sectionType"`
}

func (DeleteSectionData) ActionType() ActionType { return ActionDeleteSection }

type ContentChange struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type UpdateContentData struct {
	Content Content         `json:"content"`
	Changes []ContentChange `json:"changes"`
	Metrics QualityMetrics  `json:"metrics"`
}

func (UpdateContentData) ActionType() ActionType { return ActionUpdateContent }

// UnmarshalJSON decodes Data into the concrete payload selected by Type.
func (a *Action) UnmarshalJSON(b []byte) error {
	var raw struct {
		Type        ActionType      `json:"type"`
		Target      string          `json:"target"`
		Data        json.RawMessage `json:"data"`
		Description string          `json:"description"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	a.Type, a.Target, a.Description = raw.Type, raw.Target, raw.Description
	a.Data = nil

	var data ActionData
	switch raw.Type {
	case ActionAddSection:
		data = &AddSectionData{}
	case ActionChangeTheme:
		data = &ThemeChangeData{}
	case ActionModifySection:
		data = &ModifySectionData{}
	case ActionDeleteSection:
		data = &DeleteSectionData{}
	case ActionUpdateContent:
		data = &UpdateContentData{}
	default:
		return nil
	}
	if len(raw.Data) > 0 && string(raw.Data) != "null" {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			return err
		}
	}
	// store by value so type switches see the same shapes Synthesizer emits
	switch d := data.(type) {
	case *AddSectionData:
		a.Data = *d
	case *ThemeChangeData:
		a.Data = *d
	case *ModifySectionData:
		a.Data = *d
	case *DeleteSectionData:
		a.Data = *d
	case *UpdateContentData:
		a.Data = *d
	}
	return nil
}
