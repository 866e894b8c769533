package webapi

import "encoding/json"

// Message is a channel message as returned by history, replies and posting
// methods. Blocks and attachments stay raw: their concrete shape belongs to
// the blockkit package and callers rarely need to introspect them on read.
type Message struct {
	Type        string          `json:"type,omitempty"`
	Subtype     string          `json:"subtype,omitempty"`
	TS          string          `json:"ts,omitempty"`
	ThreadTS    string          `json:"thread_ts,omitempty"`
	Channel     string          `json:"channel,omitempty"`
	User        string          `json:"user,omitempty"`
	BotID       string          `json:"bot_id,omitempty"`
	Username    string          `json:"username,omitempty"`
	Team        string          `json:"team,omitempty"`
	Text        string          `json:"text,omitempty"`
	Blocks      json.RawMessage `json:"blocks,omitempty"`
	Attachments json.RawMessage `json:"attachments,omitempty"`
	ReplyCount  int             `json:"reply_count,omitempty"`
	Reactions   []ItemReaction  `json:"reactions,omitempty"`
	Edited      *EditedInfo     `json:"edited,omitempty"`
}

// EditedInfo records who last edited a message and when.
type EditedInfo struct {
	User string `json:"user"`
	TS   string `json:"ts"`
}

// ItemReaction is an emoji reaction attached to a message or file.
type ItemReaction struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Users []string `json:"users"`
}

// ChannelTopic holds a conversation topic or purpose value.
type ChannelTopic struct {
	Value   string `json:"value"`
	Creator string `json:"creator"`
	LastSet int64  `json:"last_set"`
}

// Channel is a conversation of any type: public or private channel, direct
// message or multi-party direct message.
type Channel struct {
	ID          string       `json:"id"`
	Name        string       `json:"name,omitempty"`
	Created     int64        `json:"created,omitempty"`
	Creator     string       `json:"creator,omitempty"`
	IsChannel   bool         `json:"is_channel,omitempty"`
	IsGroup     bool         `json:"is_group,omitempty"`
	IsIM        bool         `json:"is_im,omitempty"`
	IsMpim      bool         `json:"is_mpim,omitempty"`
	IsPrivate   bool         `json:"is_private,omitempty"`
	IsArchived  bool         `json:"is_archived,omitempty"`
	IsGeneral   bool         `json:"is_general,omitempty"`
	IsShared    bool         `json:"is_shared,omitempty"`
	IsOrgShared bool         `json:"is_org_shared,omitempty"`
	IsMember    bool         `json:"is_member,omitempty"`
	User        string       `json:"user,omitempty"`
	Topic       ChannelTopic `json:"topic,omitempty"`
	Purpose     ChannelTopic `json:"purpose,omitempty"`
	NumMembers  int          `json:"num_members,omitempty"`
}

// UserProfile is the profile section of a user record.
type UserProfile struct {
	RealName              string `json:"real_name,omitempty"`
	DisplayName           string `json:"display_name,omitempty"`
	RealNameNormalized    string `json:"real_name_normalized,omitempty"`
	DisplayNameNormalized string `json:"display_name_normalized,omitempty"`
	Email                 string `json:"email,omitempty"`
	Phone                 string `json:"phone,omitempty"`
	Title                 string `json:"title,omitempty"`
	StatusText            string `json:"status_text,omitempty"`
	StatusEmoji           string `json:"status_emoji,omitempty"`
	Image48               string `json:"image_48,omitempty"`
	Image192              string `json:"image_192,omitempty"`
	Team                  string `json:"team,omitempty"`
	BotID                 string `json:"bot_id,omitempty"`
}

// User is a workspace member.
type User struct {
	ID                string      `json:"id"`
	TeamID            string      `json:"team_id,omitempty"`
	Name              string      `json:"name,omitempty"`
	RealName          string      `json:"real_name,omitempty"`
	Deleted           bool        `json:"deleted,omitempty"`
	TZ                string      `json:"tz,omitempty"`
	TZOffset          int         `json:"tz_offset,omitempty"`
	IsAdmin           bool        `json:"is_admin,omitempty"`
	IsOwner           bool        `json:"is_owner,omitempty"`
	IsPrimaryOwner    bool        `json:"is_primary_owner,omitempty"`
	IsRestricted      bool        `json:"is_restricted,omitempty"`
	IsUltraRestricted bool        `json:"is_ultra_restricted,omitempty"`
	IsBot             bool        `json:"is_bot,omitempty"`
	IsAppUser         bool        `json:"is_app_user,omitempty"`
	Updated           int64       `json:"updated,omitempty"`
	Profile           UserProfile `json:"profile,omitempty"`
}

// Team describes the workspace the token belongs to.
type Team struct {
	ID             string `json:"id"`
	Name           string `json:"name,omitempty"`
	Domain         string `json:"domain,omitempty"`
	EmailDomain    string `json:"email_domain,omitempty"`
	EnterpriseID   string `json:"enterprise_id,omitempty"`
	EnterpriseName string `json:"enterprise_name,omitempty"`
}

// Bot describes a bot user as returned by bots.info.
type Bot struct {
	ID      string `json:"id"`
	AppID   string `json:"app_id,omitempty"`
	Name    string `json:"name,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
	Updated int64  `json:"updated,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

// File describes an uploaded file.
type File struct {
	ID         string `json:"id"`
	Created    int64  `json:"created,omitempty"`
	Name       string `json:"name,omitempty"`
	Title      string `json:"title,omitempty"`
	Mimetype   string `json:"mimetype,omitempty"`
	Filetype   string `json:"filetype,omitempty"`
	Size       int64  `json:"size,omitempty"`
	User       string `json:"user,omitempty"`
	URLPrivate string `json:"url_private,omitempty"`
	Permalink  string `json:"permalink,omitempty"`
	IsPublic   bool   `json:"is_public,omitempty"`
}

// UserGroup is a named group of workspace members.
type UserGroup struct {
	ID          string   `json:"id"`
	TeamID      string   `json:"team_id,omitempty"`
	Name        string   `json:"name,omitempty"`
	Handle      string   `json:"handle,omitempty"`
	Description string   `json:"description,omitempty"`
	DateCreate  int64    `json:"date_create,omitempty"`
	DateDelete  int64    `json:"date_delete,omitempty"`
	UserCount   int      `json:"user_count,omitempty"`
	Users       []string `json:"users,omitempty"`
}
