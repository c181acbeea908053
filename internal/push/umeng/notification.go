package umeng

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

var (
	ErrUnknownKey   = errors.New("unknown key")
	ErrContainerKey = errors.New("container key cannot be set directly")
)

type router func(n *Notification, key string, value any) error

// Notification accumulates the request document of a single cast.
type Notification struct {
	platform        Platform
	appMasterSecret string
	root            map[string]any
	route           router
}

func newNotification(platform Platform, cast Cast, appKey, appMasterSecret string, route router) Notification {
	return Notification{
		platform:        platform,
		appMasterSecret: appMasterSecret,
		root: map[string]any{
			"appkey": appKey,
			"type":   string(cast),
		},
		route: route,
	}
}

func (n *Notification) Platform() Platform {
	return n.platform
}

func (n *Notification) Cast() Cast {
	c, _ := n.root["type"].(string)
	return Cast(c)
}

func (n *Notification) AppKey() string {
	k, _ := n.root["appkey"].(string)
	return k
}

func (n *Notification) AppMasterSecret() string {
	return n.appMasterSecret
}

func (n *Notification) SetAppMasterSecret(secret string) {
	n.appMasterSecret = secret
}

func (n *Notification) Valid() bool {
	return n.AppKey() != "" && n.appMasterSecret != "" && n.Cast().Valid()
}

// SetPredefinedKeyValue places key at the nesting level the service expects for it.
func (n *Notification) SetPredefinedKeyValue(key string, value any) error {
	return n.route(n, key, value)
}

// Body returns the JSON document to be posted.
func (n *Notification) Body() ([]byte, error) {
	return json.Marshal(n.root)
}

// object returns the nested object at path, creating missing levels.
func (n *Notification) object(path ...string) map[string]any {
	cur := n.root
	for _, p := range path {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[p] = next
		}
		cur = next
	}
	return cur
}

func keyError(key string) error {
	if containerKeys.has(key) {
		return fmt.Errorf("umeng: %w: %q, set its sub keys instead", ErrContainerKey, key)
	}
	return fmt.Errorf("umeng: %w: %q", ErrUnknownKey, key)
}

func (n *Notification) SetDeviceToken(token string) error {
	return n.SetPredefinedKeyValue("device_tokens", token)
}

// SetFilter sets the groupcast filter, either a prepared object or raw JSON text.
func (n *Notification) SetFilter(filter any) error {
	return n.SetPredefinedKeyValue("filter", filter)
}

func (n *Notification) SetAlias(alias, aliasType string) error {
	if err := n.SetPredefinedKeyValue("alias", alias); err != nil {
		return err
	}
	return n.SetPredefinedKeyValue("alias_type", aliasType)
}

// SetFileID points filecast and customizedcast at an uploaded file. aliasType
// is only meaningful for customizedcast.
func (n *Notification) SetFileID(fileID, aliasType string) error {
	if err := n.SetPredefinedKeyValue("file_id", fileID); err != nil {
		return err
	}
	if aliasType == "" {
		return nil
	}
	return n.SetPredefinedKeyValue("alias_type", aliasType)
}

func (n *Notification) SetStartTime(startTime string) error {
	return n.SetPredefinedKeyValue("start_time", startTime)
}

func (n *Notification) SetExpireTime(expireTime string) error {
	return n.SetPredefinedKeyValue("expire_time", expireTime)
}

func (n *Notification) SetMaxSendNum(num int) error {
	return n.SetPredefinedKeyValue("max_send_num", num)
}

func (n *Notification) SetProductionMode(prod bool) error {
	return n.SetPredefinedKeyValue("production_mode", strconv.FormatBool(prod))
}

func (n *Notification) SetTestMode() error {
	return n.SetProductionMode(false)
}

func (n *Notification) SetDescription(description string) error {
	return n.SetPredefinedKeyValue("description", description)
}

func (n *Notification) SetThirdpartyID(id string) error {
	return n.SetPredefinedKeyValue("thirdparty_id", id)
}

// Recipient builds a groupcast filter matching devices with the given tag.
func Recipient(tag string) map[string]any {
	return map[string]any{
		"where": map[string]any{
			"and": []any{
				map[string]any{"tag": tag},
			},
		},
	}
}
