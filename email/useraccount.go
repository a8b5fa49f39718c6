package email

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dmutils "github.com/sportsbitenews/digitalmarketplace-utils"
	"github.com/sportsbitenews/digitalmarketplace-utils/external"
	"github.com/sportsbitenews/digitalmarketplace-utils/logging"
)

// SessionEmailSentTo is the session key recording where the invite went, so
// the frontend can show it on the confirmation page.
const SessionEmailSentTo = "email_sent_to"

// Deps carries what SendUserAccountEmail needs from the app.
type Deps struct {
	Client          *Client
	Routes          *external.Routes
	SharedEmailKey  string
	InviteEmailSalt string
}

// SendUserAccountEmail emails an account-creation invite. The invite link
// carries a signed token binding the role and email address plus any extras.
// On failure the request is aborted with 503; callers should not write a
// response after that.
func SendUserAccountEmail(c *gin.Context, d Deps, role, emailAddress, templateID string, extraTokenData, personalisation map[string]string) {
	tokenData := map[string]string{
		"role":          role,
		"email_address": emailAddress,
	}
	for k, v := range extraTokenData {
		tokenData[k] = v
	}

	token, err := GenerateToken(tokenData, d.SharedEmailKey, d.InviteEmailSalt)
	if err != nil {
		abortSendFailure(c, role, emailAddress, err)
		return
	}

	linkURL, err := d.Routes.ExternalURLFor("external.create_user", "encoded_token", token)
	if err != nil {
		abortSendFailure(c, role, emailAddress, err)
		return
	}

	withLink := make(map[string]string, len(personalisation)+1)
	for k, v := range personalisation {
		withLink[k] = v
	}
	withLink["url"] = linkURL

	reference := "create-user-account-" + HashString(emailAddress)

	if err := d.Client.SendEmail(c.Request.Context(), emailAddress, templateID, withLink, reference); err != nil {
		abortSendFailure(c, role, emailAddress, err)
		return
	}

	if s := sessionOrNil(c); s != nil {
		s.Set(SessionEmailSentTo, emailAddress)
		_ = s.Save()
	} else {
		c.Set(SessionEmailSentTo, emailAddress)
	}
}

func abortSendFailure(c *gin.Context, role, emailAddress string, err error) {
	logging.FromContext(c).Error("Create user email failed to send",
		zap.String("error", err.Error()),
		zap.String("email_hash", HashString(emailAddress)),
		zap.String("code", role+"create.fail"),
	)
	c.AbortWithStatusJSON(dmutils.SU, dmutils.H{"error": "Failed to send user creation email."})
}

// sessionOrNil avoids the panic sessions.Default raises when the app has no
// session middleware installed.
func sessionOrNil(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}
