package model

import "fmt"

// MetadataTemplate describes the metadata fields an item type carries.
type MetadataTemplate struct {
	Fields []string          `json:"fields"`
	Labels map[string]string `json:"labels"`
}

// metadataTemplates maps item types to their metadata schema. Types without
// a template accept no structured metadata beyond free-form tags.
var metadataTemplates = map[string]MetadataTemplate{
	"ad_token_google": {
		Fields: []string{"account_id", "customer_id", "mcc_id", "conversion_tracking_id", "gtm_container_id"},
		Labels: map[string]string{
			"account_id":             "Google Ads Account ID",
			"customer_id":            "Customer ID",
			"mcc_id":                 "MCC ID (if applicable)",
			"conversion_tracking_id": "Conversion Tracking ID",
			"gtm_container_id":       "GTM Container ID",
		},
	},
	"ad_token_meta": {
		Fields: []string{"business_manager_id", "ad_account_id", "pixel_id", "app_id", "app_secret"},
		Labels: map[string]string{
			"business_manager_id": "Business Manager ID",
			"ad_account_id":       "Ad Account ID",
			"pixel_id":            "Facebook Pixel ID",
			"app_id":              "App ID",
			"app_secret":          "App Secret",
		},
	},
	"ad_token_tiktok": {
		Fields: []string{"advertiser_id", "pixel_id", "app_id"},
		Labels: map[string]string{
			"advertiser_id": "Advertiser ID",
			"pixel_id":      "TikTok Pixel ID",
			"app_id":        "App ID",
		},
	},
	"ad_token_linkedin": {
		Fields: []string{"account_id", "campaign_manager_account", "insight_tag_id"},
		Labels: map[string]string{
			"account_id":               "LinkedIn Account ID",
			"campaign_manager_account": "Campaign Manager Account",
			"insight_tag_id":           "Insight Tag ID",
		},
	},
	"ssh_key": {
		Fields: []string{"hostname", "port", "username", "private_key_path"},
		Labels: map[string]string{
			"hostname":         "Hostname/IP",
			"port":             "Port",
			"username":         "Username",
			"private_key_path": "Private Key Path",
		},
	},
	"db_credential": {
		Fields: []string{"host", "port", "database", "username", "connection_string"},
		Labels: map[string]string{
			"host":              "Host",
			"port":              "Port",
			"database":          "Database Name",
			"username":          "Username",
			"connection_string": "Connection String",
		},
	},
}

// TemplateFor returns the metadata template for an item type. Unknown types
// get an empty template.
func TemplateFor(itemType string) MetadataTemplate {
	if tpl, ok := metadataTemplates[itemType]; ok {
		return tpl
	}
	return MetadataTemplate{Fields: []string{}, Labels: map[string]string{}}
}

// Templates returns every metadata template keyed by item type.
func Templates() map[string]MetadataTemplate {
	out := make(map[string]MetadataTemplate, len(metadataTemplates))
	for k, v := range metadataTemplates {
		out[k] = v
	}
	return out
}

// ValidateMetadata checks metadata keys against the item type's template.
// Types without a template accept any keys; typed items reject keys the
// template doesn't declare.
func ValidateMetadata(itemType string, metadata JSONMap) error {
	tpl, ok := metadataTemplates[itemType]
	if !ok || len(metadata) == 0 {
		return nil
	}

	allowed := make(map[string]bool, len(tpl.Fields))
	for _, f := range tpl.Fields {
		allowed[f] = true
	}
	for key := range metadata {
		if !allowed[key] {
			return fmt.Errorf("metadata field %q is not valid for item type %q", key, itemType)
		}
	}
	return nil
}
