package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/k3a/html2text"
	log "github.com/sirupsen/logrus"

	"umeng-push/internal/push"
	"umeng-push/internal/push/umeng"
	"umeng-push/internal/task"
)

var defaultAliasType = map[task.Platform]string{
	task.Android: "android",
	task.Ios:     "iOS",
}

func castOf(qtask *task.Task) (umeng.Cast, error) {
	cast := umeng.Cast(qtask.Cast)
	if !cast.Valid() {
		log.Errorf("transport: unknown cast %q in task %d", qtask.Cast, qtask.ID)
		return "", push.ErrorRequest
	}
	return cast, nil
}

// plainContent strips markup editors leave in message text.
func plainContent(content string) string {
	return strings.TrimSpace(html2text.HTML2Text(content))
}

// prepare fills the platform independent part of a cast. Raw fields are
// applied last so they can override the defaults.
func (s *sender) prepare(ctx context.Context, n *umeng.Notification, qtask *task.Task, opts *AppOpts) error {
	errs := []error{
		n.SetProductionMode(opts.ProductionMode),
		n.SetThirdpartyID(uuid.NewString()),
	}
	if description := qtask.String(task.KeyDescription); description != "" {
		errs = append(errs, n.SetDescription(description))
	}
	if sendTime := qtask.String(task.KeySendTime); sendTime != "" {
		errs = append(errs, n.SetStartTime(sendTime))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if err := s.recipient(ctx, n, qtask, opts); err != nil {
		return err
	}

	for k, v := range qtask.Map(task.KeyFields) {
		if err := n.SetPredefinedKeyValue(k, v); err != nil {
			log.Errorf("transport: task %d field %s", qtask.ID, err)
			return fmt.Errorf("%w: %w", push.ErrorRequest, err)
		}
	}

	return nil
}

func (s *sender) recipient(ctx context.Context, n *umeng.Notification, qtask *task.Task, opts *AppOpts) error {
	cast := n.Cast()
	_, hasFileID := qtask.Map(task.KeyFields)["file_id"]

	if cast == umeng.Customizedcast && qtask.To == "" && hasFileID {
		return nil
	}
	if cast != umeng.Broadcast && qtask.To == "" {
		log.Errorf("transport: %s task %d without recipient", cast, qtask.ID)
		return push.ErrorRequest
	}

	switch cast {
	case umeng.Unicast, umeng.Listcast:
		return n.SetDeviceToken(qtask.To)
	case umeng.Groupcast:
		filter, err := groupFilter(qtask.To)
		if err != nil {
			log.Errorf("transport: task %d bad filter %s", qtask.ID, err)
			return push.ErrorRequest
		}
		return n.SetFilter(filter)
	case umeng.Customizedcast:
		aliasType := qtask.String(task.KeyAliasType)
		if aliasType == "" {
			aliasType = defaultAliasType[s.platform]
		}
		if !strings.Contains(qtask.To, "\n") {
			return n.SetAlias(qtask.To, aliasType)
		}
		// a newline separated alias list goes through the upload endpoint
		fileID, err := s.upload(ctx, opts, qtask.To)
		if err != nil {
			return err
		}
		return n.SetFileID(fileID, aliasType)
	case umeng.Filecast:
		fileID, err := s.upload(ctx, opts, qtask.To)
		if err != nil {
			return err
		}
		return n.SetFileID(fileID, "")
	}

	return nil
}

// groupFilter accepts either a JSON filter document or a single tag.
func groupFilter(to string) (map[string]any, error) {
	to = strings.TrimSpace(to)
	if !strings.HasPrefix(to, "{") {
		return umeng.Recipient(to), nil
	}
	var filter map[string]any
	if err := json.Unmarshal([]byte(to), &filter); err != nil {
		return nil, err
	}
	return filter, nil
}

// fieldString returns the shorthand payload value or, when absent, the raw
// field of the same meaning.
func fieldString(qtask *task.Task, key, field string) string {
	if v := qtask.String(key); v != "" {
		return v
	}
	if v, ok := qtask.Map(task.KeyFields)[field].(string); ok {
		return v
	}
	return ""
}

func isWebURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
