package cli

// buildVersion is overridden at link time with -ldflags "-X ...cli.buildVersion=...".
var buildVersion = "dev"
