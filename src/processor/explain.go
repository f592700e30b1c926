package processor

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ExplainColumns returns the static attribute/description table for the
// Spotify top hits schema, rendered by the presentation layer next to
// the raw data.
func ExplainColumns() dataframe.DataFrame {
	attributes := []string{
		"artist",
		"song",
		"duration_ms",
		"explicit",
		"year",
		"popularity",
		"danceability",
		"energy",
		"key",
		"loudness",
		"mode",
		"speechiness",
		"acousticness",
		"instrumentalness",
		"liveness",
		"valence",
		"tempo",
		"genre",
	}
	descriptions := []string{
		"Name of the artist.",
		"Name of the track.",
		"Duration of the track in milliseconds.",
		"Indicates if content is offensive or unsuitable for children.",
		"Release year of the track.",
		"Popularity of the track (higher value = more popular).",
		"Describes how suitable a track is for dancing (0.0 to 1.0).",
		"A measure of intensity and activity (0.0 to 1.0).",
		"The key the track is in, mapped using pitch class notation.",
		"The overall loudness of a track in decibels (dB).",
		"Modality of a track: major (1) or minor (0).",
		"Detects the presence of spoken words in a track.",
		"Confidence measure of whether a track is acoustic (0.0 to 1.0).",
		"Predicts if a track contains no vocals (closer to 1.0 = instrumental).",
		"Detects the presence of an audience in the recording.",
		"Describes the musical positiveness of a track (0.0 to 1.0).",
		"The estimated tempo of a track in beats per minute (BPM).",
		"Genres of the track.",
	}

	return dataframe.New(
		series.New(attributes, series.String, "Attribute"),
		series.New(descriptions, series.String, "Description"),
	)
}
