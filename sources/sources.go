// Package sources holds one adapter per platform. Each adapter converts the
// engine's normalized query into a provider-specific HTTP call, decodes the
// provider's raw response shape into an explicit per-provider struct, and
// maps it onto the neutral models.Post.
package sources

import (
	"mention-radar/aggregator"
	"mention-radar/config"
)

// FromConfig builds every adapter the current configuration allows.
// Platforms whose API key is absent are simply not registered — the engine
// treats them as silently contributing zero posts, not as failures.
// Keyless platforms (Reddit, Bluesky, Truth Social) are always registered.
func FromConfig(cfg config.AppConfig) []aggregator.Source {
	var out []aggregator.Source

	if cfg.XApiKey != "" {
		out = append(out, NewX(cfg.XApiKey, ""))
	}
	// TikTok 프로바이더 등록 순서가 곧 병합 우선순위다. (먼저 등록 = 중복 시 승자)
	if cfg.TikTokApiKey != "" {
		out = append(out, NewTikTokPrimary(cfg.TikTokApiKey, ""))
	}
	if cfg.TikTokBackupApiKey != "" {
		out = append(out, NewTikTokBackup(cfg.TikTokBackupApiKey, ""))
	}
	out = append(out, NewReddit(""))
	if cfg.YouTubeApiKey != "" {
		out = append(out, NewYouTube(cfg.YouTubeApiKey, ""))
	}
	out = append(out, NewBluesky(""))
	out = append(out, NewTruthSocial(""))

	return out
}
