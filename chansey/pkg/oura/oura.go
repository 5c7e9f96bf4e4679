package oura

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const (
	baseUrl = "https://api.ouraring.com/v2/usercollection"

	sleepEndpoint          = "sleep"
	dailySleepEndpoint     = "daily_sleep"
	dailyActivityEndpoint  = "daily_activity"
	dailyReadinessEndpoint = "daily_readiness"
	dailyStressEndpoint    = "daily_stress"
	dailySpO2Endpoint      = "daily_spo2"
)

type Client struct {
	client *http.Client
	logger *zap.Logger
	token  string
}

// Source is the vendor side of the pipeline: everything the mapper needs
// for one subject over one date range.
type Source interface {
	Collections(ctx context.Context, startDay, endDay string) (*Collections, error)
}

// Collections bundles one date-range pull across every endpoint we consume.
type Collections struct {
	Sleep     []SleepRecord
	Sleeps    []DailySleepRecord
	Activity  []DailyActivityRecord
	Readiness []DailyReadinessRecord
	Stress    []DailyStressRecord
	SpO2      []DailySpO2Record
}

// SleepRecord is one sleep period (possibly several per day).
type SleepRecord struct {
	Day                string   `json:"day"`
	DeepSleepDuration  *float64 `json:"deep_sleep_duration"`
	RemSleepDuration   *float64 `json:"rem_sleep_duration"`
	LightSleepDuration *float64 `json:"light_sleep_duration"`
	TotalSleepDuration *float64 `json:"total_sleep_duration"`
	AwakeTime          *float64 `json:"awake_time"`
	TimeInBed          *float64 `json:"time_in_bed"`
	Latency            *float64 `json:"latency"`
	AverageHeartRate   *float64 `json:"average_heart_rate"`
	LowestHeartRate    *float64 `json:"lowest_heart_rate"`
	AverageHRV         *float64 `json:"average_hrv"`
	AverageBreath      *float64 `json:"average_breath"`
}

type SleepContributors struct {
	DeepSleep   *float64 `json:"deep_sleep"`
	Efficiency  *float64 `json:"efficiency"`
	Latency     *float64 `json:"latency"`
	RemSleep    *float64 `json:"rem_sleep"`
	Restfulness *float64 `json:"restfulness"`
	Timing      *float64 `json:"timing"`
	TotalSleep  *float64 `json:"total_sleep"`
}

type DailySleepRecord struct {
	Day          string            `json:"day"`
	Score        *float64          `json:"score"`
	Contributors SleepContributors `json:"contributors"`
}

type ActivityContributors struct {
	MeetDailyTargets  *float64 `json:"meet_daily_targets"`
	MoveEveryHour     *float64 `json:"move_every_hour"`
	RecoveryTime      *float64 `json:"recovery_time"`
	StayActive        *float64 `json:"stay_active"`
	TrainingFrequency *float64 `json:"training_frequency"`
	TrainingVolume    *float64 `json:"training_volume"`
}

type DailyActivityRecord struct {
	Day                       string               `json:"day"`
	Score                     *float64             `json:"score"`
	Steps                     *float64             `json:"steps"`
	ActiveCalories            *float64             `json:"active_calories"`
	TotalCalories             *float64             `json:"total_calories"`
	EquivalentWalkingDistance *float64             `json:"equivalent_walking_distance"`
	HighActivityTime          *float64             `json:"high_activity_time"`
	MediumActivityTime        *float64             `json:"medium_activity_time"`
	LowActivityTime           *float64             `json:"low_activity_time"`
	SedentaryTime             *float64             `json:"sedentary_time"`
	Contributors              ActivityContributors `json:"contributors"`
}

type ReadinessContributors struct {
	ActivityBalance     *float64 `json:"activity_balance"`
	BodyTemperature     *float64 `json:"body_temperature"`
	HRVBalance          *float64 `json:"hrv_balance"`
	PreviousDayActivity *float64 `json:"previous_day_activity"`
	PreviousNight       *float64 `json:"previous_night"`
	RecoveryIndex       *float64 `json:"recovery_index"`
	RestingHeartRate    *float64 `json:"resting_heart_rate"`
	SleepBalance        *float64 `json:"sleep_balance"`
}

type DailyReadinessRecord struct {
	Day                  string                `json:"day"`
	Score                *float64              `json:"score"`
	TemperatureDeviation *float64              `json:"temperature_deviation"`
	Contributors         ReadinessContributors `json:"contributors"`
}

type DailyStressRecord struct {
	Day          string   `json:"day"`
	StressHigh   *float64 `json:"stress_high"`
	RecoveryHigh *float64 `json:"recovery_high"`
}

type SpO2Percentage struct {
	Average *float64 `json:"average"`
}

type DailySpO2Record struct {
	Day                       string          `json:"day"`
	SpO2Percentage            *SpO2Percentage `json:"spo2_percentage"`
	BreathingDisturbanceIndex *float64        `json:"breathing_disturbance_index"`
}

func New(token string, logger *zap.Logger) *Client {
	return &Client{
		client: &http.Client{},
		logger: logger,
		token:  token,
	}
}

// Collections pulls every consumed endpoint for the given day range. A
// failing endpoint fails the whole pull; partial syncs would leave the
// stored history lopsided across collections.
func (c *Client) Collections(ctx context.Context, startDay, endDay string) (*Collections, error) {
	var cols Collections

	if err := c.fetch(ctx, sleepEndpoint, startDay, endDay, &cols.Sleep); err != nil {
		return nil, err
	}
	if err := c.fetch(ctx, dailySleepEndpoint, startDay, endDay, &cols.Sleeps); err != nil {
		return nil, err
	}
	if err := c.fetch(ctx, dailyActivityEndpoint, startDay, endDay, &cols.Activity); err != nil {
		return nil, err
	}
	if err := c.fetch(ctx, dailyReadinessEndpoint, startDay, endDay, &cols.Readiness); err != nil {
		return nil, err
	}
	if err := c.fetch(ctx, dailyStressEndpoint, startDay, endDay, &cols.Stress); err != nil {
		return nil, err
	}
	if err := c.fetch(ctx, dailySpO2Endpoint, startDay, endDay, &cols.SpO2); err != nil {
		return nil, err
	}

	return &cols, nil
}

type documentResponse struct {
	Data      json.RawMessage `json:"data"`
	NextToken *string         `json:"next_token"`
}

// fetch pulls every page of an endpoint, following next_token until the
// vendor reports no more. Dropping the token would silently truncate any
// range long enough to paginate.
func (c *Client) fetch(ctx context.Context, endpoint, startDay, endDay string, out interface{}) error {
	var items []json.RawMessage
	token := ""

	for {
		dr, err := c.fetchPage(ctx, endpoint, startDay, endDay, token)
		if err != nil {
			return err
		}

		var page []json.RawMessage
		if err := json.Unmarshal(dr.Data, &page); err != nil {
			return fmt.Errorf("unable to decode %s page: %w", endpoint, err)
		}
		items = append(items, page...)

		if dr.NextToken == nil || *dr.NextToken == "" {
			break
		}
		token = *dr.NextToken
	}

	combined, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return json.Unmarshal(combined, out)
}

func (c *Client) fetchPage(ctx context.Context, endpoint, startDay, endDay, token string) (*documentResponse, error) {
	params := url.Values{
		"start_date": {startDay},
		"end_date":   {endDay},
	}
	if token != "" {
		params.Set("next_token", token)
	}

	c.logger.Debug("fetching collection",
		zap.String("endpoint", endpoint),
		zap.String("start", startDay),
		zap.String("end", endDay),
		zap.Bool("paged", token != ""),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseUrl+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status fetching %s: %d", endpoint, resp.StatusCode)
	}

	var dr documentResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		c.logger.Debug("failed to decode collection response", zap.String("endpoint", endpoint))
		return nil, err
	}

	return &dr, nil
}
