package main

import (
	"fmt"
	"os"

	"github.com/mongodb/grip"
	"github.com/urfave/cli"

	"saasctl/internal/application"
	"saasctl/internal/domain"
	"saasctl/internal/infrastructure"
)

const (
	paramFlagName   = "param"
	jsonFlagName    = "json"
	baseURLFlagName = "base-url"
	confFlagName    = "config"

	tokenEnvVar = "HUBSPOT_TOKEN"
)

func main() {
	app := cli.NewApp()
	app.Name = "hubspotcli"
	app.Usage = "CRM command-line wrapper"
	app.ArgsUsage = "<action> <object-type>"
	app.CustomAppHelpTemplate = application.HubSpotUsage
	app.Flags = []cli.Flag{
		cli.StringSliceFlag{
			Name:  paramFlagName,
			Usage: "action parameter as key=value (repeatable)",
		},
		cli.StringFlag{
			Name:  jsonFlagName,
			Usage: "action parameters as a JSON object; overrides --param on collision",
		},
		cli.StringFlag{
			Name:  baseURLFlagName,
			Usage: "override the CRM base URL",
		},
		cli.StringFlag{
			Name:  confFlagName,
			Usage: "path to optional YAML configuration file",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		grip.Error(err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	action := c.Args().Get(0)
	objectType := c.Args().Get(1)

	// The no-action path is the tool's built-in help and not an error.
	if action == "" {
		fmt.Print(application.HubSpotUsage)
		return nil
	}

	// Reject unknown actions before credentials are resolved, so a typo
	// never triggers an interactive prompt. The object type gets the same
	// treatment: its validation needs no credentials either.
	if !application.IsSupported(application.HubSpotActions, action) {
		fmt.Print(application.HubSpotUsage)
		return &domain.UnsupportedActionError{Action: action, Supported: application.HubSpotActions}
	}
	if _, err := domain.ResolveObjectType(objectType); err != nil {
		fmt.Print(application.HubSpotUsage)
		return err
	}

	structured, err := domain.ParseKeyValuePairs(c.StringSlice(paramFlagName))
	if err != nil {
		return err
	}
	params, err := domain.MergeParams(structured, c.String(jsonFlagName))
	if err != nil {
		return err
	}

	var config domain.Config
	if path := c.String(confFlagName); path != "" {
		loaded, err := domain.LoadConfig(path)
		if err != nil {
			return err
		}
		config = *loaded
	}
	baseURL := domain.EffectiveBaseURL(c.String(baseURLFlagName), config.Services.HubSpot, domain.DefaultHubSpotBaseURL)

	creds, err := domain.NewResolver().ResolveToken(tokenEnvVar)
	if err != nil {
		return err
	}
	httpClient, err := domain.NewAuthenticatedClient(creds)
	if err != nil {
		return err
	}

	handler := application.NewHubSpotHandler(infrastructure.NewHubSpotClient(baseURL, httpClient))
	result, err := handler.Dispatch(action, objectType, params)
	if err != nil {
		return err
	}

	rendered, err := application.RenderResult(result)
	if err != nil {
		return err
	}
	fmt.Println(rendered)
	return nil
}
