package http

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aptradar/aptradar/internal/core/domain"
	"github.com/aptradar/aptradar/internal/pkg/metrics"
)

// toolRequest is the webhook body posted by the conversational-AI
// platform when the agent decides to call a tool.
type toolRequest struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

// requireToolSecret checks the X-Agent-Secret header. An empty
// configured secret is dev mode: the call is allowed with a warning.
func requireToolSecret(c *fiber.Ctx, secret string) error {
	if secret == "" {
		slog.Warn("agent tool call allowed without secret; set agent.tool_secret in production")
		return nil
	}
	got := c.Get("X-Agent-Secret")
	if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
		return errForbidden(c, "invalid agent secret")
	}
	return nil
}

// AgentToolsHandler is the tool-dispatch webhook. The request names a
// tool; exactly one handler runs and the response carries structured
// data plus an utterance for the agent to speak.
func AgentToolsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireToolSecret(c, deps.AgentToolSecret); err != nil {
			return err
		}

		var req toolRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if strings.TrimSpace(req.Tool) == "" {
			return errBadRequest(c, "tool is required")
		}

		resp, err := deps.Tools.Dispatch(c.UserContext(), req.Tool, req.Params)
		if err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				metrics.ToolCalls.WithLabelValues(req.Tool, "rejected").Inc()
				return errBadRequest(c, ve.Msg)
			}
			metrics.ToolCalls.WithLabelValues(req.Tool, "error").Inc()
			return errFromDomain(c, err)
		}

		metrics.ToolCalls.WithLabelValues(req.Tool, "ok").Inc()
		return c.JSON(resp)
	}
}

// ListToolsHandler lists the registered tool names so the platform-side
// agent config can be checked against what the server actually serves.
func ListToolsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"tools": deps.Tools.Names()})
	}
}

// EchoToolsHandler is a secret-gated liveness check for the webhook:
// the platform calls it once to confirm the URL and secret line up.
// The utterance is spoken back to the caller by the voice platform.
func EchoToolsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireToolSecret(c, deps.AgentToolSecret); err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"ok":        true,
			"utterance": "Tools echo is alive.",
			"tools":     deps.Tools.Names(),
		})
	}
}

// RouteUtteranceHandler resolves one text utterance through the agent
// bus. Protected by a static bearer token when one is configured.
func RouteUtteranceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.AgentRouteToken != "" {
			auth := c.Get(fiber.HeaderAuthorization)
			want := "Bearer " + deps.AgentRouteToken
			if subtle.ConstantTimeCompare([]byte(auth), []byte(want)) != 1 {
				return errUnauthorized(c, "missing or invalid bearer token")
			}
		}

		var req struct {
			Text string `json:"text"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		result := deps.Router.Route(c.UserContext(), req.Text)
		return c.JSON(result)
	}
}

// PostCommandHandler drops a UI command into the single-slot mailbox.
// Last write wins; the command expires if nobody polls it in time.
func PostCommandHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireToolSecret(c, deps.AgentToolSecret); err != nil {
			return err
		}

		var cmd domain.UICommand
		if err := c.BodyParser(&cmd); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if strings.TrimSpace(cmd.Type) == "" {
			return errBadRequest(c, "type is required")
		}
		if cmd.ID == "" {
			cmd.ID = uuid.NewString()
		}

		if err := deps.Mailbox.Post(c.UserContext(), cmd); err != nil {
			return errInternal(c, err.Error())
		}

		metrics.MailboxPosts.Inc()
		return c.JSON(fiber.Map{"ok": true, "id": cmd.ID})
	}
}

// TakeCommandHandler is the front end's poll loop: it consumes the
// pending command, if any. An empty mailbox is a normal answer, not an
// error.
func TakeCommandHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cmd, ok, err := deps.Mailbox.Take(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}

		if !ok {
			metrics.MailboxTakes.WithLabelValues("false").Inc()
			return c.JSON(fiber.Map{"pending": false})
		}

		metrics.MailboxTakes.WithLabelValues("true").Inc()
		return c.JSON(fiber.Map{"pending": true, "message": cmd})
	}
}
