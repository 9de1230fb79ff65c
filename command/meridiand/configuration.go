// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/balance"
	"github.com/meridian-inc/meridiand/compliance"
	"github.com/meridian-inc/meridiand/configuration"
	"github.com/meridian-inc/meridiand/fees"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/ticker"
	"github.com/meridian-inc/meridiand/util"
)

// basic defaults, directories and files are relative to the
// DataDirectory from the configuration file
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultDatabaseDirectory = "data"
	defaultDatabaseName      = "meridian"

	defaultLogDirectory = "log"
	defaultLogFile      = "meridiand.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

var defaultLogLevels = map[string]string{
	logger.DefaultTag: "critical",
}

// DatabaseType - directory and file prefix of the LevelDB pair
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// LimitsType - the bounded collection sizes of the engine
//
// zero values fall back to the compiled in defaults
type LimitsType struct {
	MaxTickerLength          int    `gluamapper:"max_ticker_length" json:"max_ticker_length"`
	MaxAssetNameLen          int    `gluamapper:"max_asset_name_len" json:"max_asset_name_len"`
	MaxFundingRoundNameLen   int    `gluamapper:"max_funding_round_name_len" json:"max_funding_round_name_len"`
	MaxMetadataNameLen       int    `gluamapper:"max_metadata_name_len" json:"max_metadata_name_len"`
	MaxMetadataValueLen      int    `gluamapper:"max_metadata_value_len" json:"max_metadata_value_len"`
	MaxMetadataTypeDefLen    int    `gluamapper:"max_metadata_type_def_len" json:"max_metadata_type_def_len"`
	MaxDocsPerBatch          int    `gluamapper:"max_docs_per_batch" json:"max_docs_per_batch"`
	MaxAssetMediators        int    `gluamapper:"max_asset_mediators" json:"max_asset_mediators"`
	MaxConditionComplexity   uint64 `gluamapper:"max_condition_complexity" json:"max_condition_complexity"`
	MaxIssuersPerCondition   int    `gluamapper:"max_issuers_per_condition" json:"max_issuers_per_condition"`
	MaxDefaultTrustedIssuers int    `gluamapper:"max_default_trusted_issuers" json:"max_default_trusted_issuers"`
}

// FeeOverrideType - one verb charged differently from the flat rate
type FeeOverrideType struct {
	Verb   string `gluamapper:"verb" json:"verb"`
	Amount uint64 `gluamapper:"amount" json:"amount"`
}

// FeesType - the protocol fee schedule
//
// a blank currency disables fee collection entirely
type FeesType struct {
	Currency string            `gluamapper:"currency" json:"currency"`
	Treasury string            `gluamapper:"treasury" json:"treasury"`
	Flat     uint64            `gluamapper:"flat" json:"flat"`
	Verbs    []FeeOverrideType `gluamapper:"verbs" json:"verbs"`
}

// Configuration - the full configuration of a node
type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" json:"pidfile"`
	Testing       bool         `gluamapper:"testing" json:"testing"`
	Database      DatabaseType `gluamapper:"database" json:"database"`

	AllowSelfDistribution bool `gluamapper:"allow_self_distribution" json:"allow_self_distribution"`

	Fees    FeesType             `gluamapper:"fees" json:"fees"`
	Limits  LimitsType           `gluamapper:"limits" json:"limits"`
	Logging logger.Configuration `gluamapper:"logging" json:"logging"`
}

// AssetLimits - limits for the asset registry
func (c *Configuration) AssetLimits() asset.Limits {
	l := asset.DefaultLimits
	if c.Limits.MaxTickerLength > 0 {
		l.MaxTickerLength = c.Limits.MaxTickerLength
	}
	if c.Limits.MaxAssetNameLen > 0 {
		l.MaxAssetNameLen = c.Limits.MaxAssetNameLen
	}
	if c.Limits.MaxFundingRoundNameLen > 0 {
		l.MaxFundingRoundNameLen = c.Limits.MaxFundingRoundNameLen
	}
	if c.Limits.MaxMetadataNameLen > 0 {
		l.MaxMetadataNameLen = c.Limits.MaxMetadataNameLen
	}
	if c.Limits.MaxMetadataValueLen > 0 {
		l.MaxMetadataValueLen = c.Limits.MaxMetadataValueLen
	}
	if c.Limits.MaxMetadataTypeDefLen > 0 {
		l.MaxMetadataTypeDefLen = c.Limits.MaxMetadataTypeDefLen
	}
	if c.Limits.MaxDocsPerBatch > 0 {
		l.MaxDocsPerBatch = c.Limits.MaxDocsPerBatch
	}
	if c.Limits.MaxAssetMediators > 0 {
		l.MaxAssetMediators = c.Limits.MaxAssetMediators
	}
	return l
}

// ComplianceLimits - limits for the compliance engine
func (c *Configuration) ComplianceLimits() compliance.Limits {
	l := compliance.DefaultLimits
	if c.Limits.MaxConditionComplexity > 0 {
		l.MaxConditionComplexity = c.Limits.MaxConditionComplexity
	}
	if c.Limits.MaxIssuersPerCondition > 0 {
		l.MaxIssuersPerCondition = c.Limits.MaxIssuersPerCondition
	}
	if c.Limits.MaxDefaultTrustedIssuers > 0 {
		l.MaxDefaultTrustedIssuers = c.Limits.MaxDefaultTrustedIssuers
	}
	return l
}

// FeeCharger - build the configured fee schedule
//
// nil when fee collection is disabled
func (c *Configuration) FeeCharger() (*fees.FlatCharger, error) {
	if "" == c.Fees.Currency {
		return nil, nil
	}
	currency, err := ticker.New(c.Fees.Currency, c.AssetLimits().MaxTickerLength)
	if nil != err {
		return nil, err
	}
	treasury, err := identity.FromBase58(c.Fees.Treasury)
	if nil != err {
		return nil, err
	}
	charger := fees.NewFlatCharger(currency, treasury, balance.New(c.Fees.Flat))
	for _, o := range c.Fees.Verbs {
		charger.SetVerbFee(o.Verb, balance.New(o.Amount))
	}
	return charger, nil
}

// read, decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Testing:       false,

		Database: DatabaseType{
			Directory: defaultDatabaseDirectory,
			Name:      defaultDatabaseName,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist, created prior to running
	fileInfo, err := os.Stat(options.DataDirectory)
	if nil != err {
		return nil, err
	}
	if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if the database name is not a simple file name
	switch filepath.Dir(options.Database.Name) {
	case "", ".":
		options.Database.Name = util.EnsureAbsolute(options.Database.Directory, options.Database.Name)
	default:
		return nil, fmt.Errorf("database: %q is not a plain name", options.Database.Name)
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	return options, nil
}
