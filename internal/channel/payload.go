package channel

import (
	"fmt"
	"strings"

	"antigravity2newapi/internal/core"
	"antigravity2newapi/internal/util"
)

// BuildPayload builds the channel creation body for one credential.
// model_mapping, settings and setting are embedded as JSON text, which is the
// shape the channel endpoint expects.
func BuildPayload(tpl core.ChannelTemplate, cred core.Credential) (*core.ChannelPayload, error) {
	modelMapping := tpl.ModelMapping
	if modelMapping == nil {
		modelMapping = map[string]string{}
	}

	mappingJSON, err := util.MarshalSortedJSON(modelMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to encode model mapping: %w", err)
	}

	settingJSON, err := util.MarshalJSON(core.ChannelSetting{Proxy: tpl.Proxy})
	if err != nil {
		return nil, fmt.Errorf("failed to encode channel setting: %w", err)
	}

	group := tpl.Group
	if group == "" {
		group = core.ChannelGroupDefault
	}

	return &core.ChannelPayload{
		Mode:          core.ChannelModeSingle,
		FanOutByModel: true,
		Channel: core.Channel{
			Type:              tpl.Type,
			MaxInputTokens:    0,
			Other:             "",
			Models:            strings.Join(tpl.Models, core.ChannelModelSeparator),
			AutoBan:           tpl.AutoBan,
			Groups:            []string{group},
			Priority:          tpl.Priority,
			Weight:            tpl.Weight,
			MultiKeyMode:      tpl.MultiKeyMode,
			Settings:          core.ChannelEmptySettings,
			Name:              cred.Name,
			Key:               cred.Key,
			BaseURL:           tpl.BaseURL,
			TestModel:         tpl.TestModel,
			ModelMapping:      string(mappingJSON),
			Tag:               tpl.Tag,
			StatusCodeMapping: "",
			Setting:           string(settingJSON),
			Group:             group,
		},
	}, nil
}
