package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

func (cli *commandLine) printConfig() error {
	c := cli.conf
	rows := [][2]string{
		{"env", c.Env},
		{"debug", fmt.Sprint(c.Debug)},
		{"appname", c.AppName},
		{"build", c.Build},
		{"rollbartoken", mask(c.RollbarToken)},
		{"server.address", c.Server.Address},
		{"server.alloworigins", strings.Join(c.Server.AllowOrigins, ",")},
		{"auth.jwtsecret", mask(c.Auth.JWTSecret)},
		{"auth.requiredrole", c.Auth.RequiredRole},
		{"ai.baseurl", c.AI.BaseURL},
		{"ai.apikey", mask(c.AI.APIKey)},
		{"ai.chatmodel", c.AI.ChatModel},
		{"ai.imagemodel", c.AI.ImageModel},
		{"ai.transcriptionbaseurl", c.AI.TranscriptionBaseURL},
		{"ai.transcriptionmodel", c.AI.TranscriptionModel},
		{"ai.transcriptionfallbackmodel", c.AI.TranscriptionFallbackModel},
		{"email.sendgridapikey", mask(c.Email.SendgridAPIKey)},
		{"email.defaultfromemail", c.Email.DefaultFromEmail},
		{"email.adminemail", c.Email.AdminEmail},
		{"storage.endpoint", c.Storage.Endpoint},
		{"storage.bucket", c.Storage.Bucket},
		{"storage.secretkey", mask(c.Storage.SecretKey)},
		{"cache.redisaddr", c.Cache.RedisAddr},
		{"cache.searchttl", c.Cache.SearchTTL.String()},
		{"database.url", mask(c.Database.URL)},
		{"ratelimit.contactperminute", fmt.Sprint(c.RateLimit.ContactPerMinute)},
		{"log.level", c.Log.Level},
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r[0], r[1])
	}
	return w.Flush()
}
