package extract

// Weights holds the heuristic confidence constants. The values are
// tuned by observation, not derived from a model, so they are
// configurable defaults rather than a contract.
type Weights struct {
	// Strategy applicability scores.
	WebStructured float64 `yaml:"web_structured" mapstructure:"web_structured"`
	WebDocument   float64 `yaml:"web_document" mapstructure:"web_document"`
	WebBodyOnly   float64 `yaml:"web_body_only" mapstructure:"web_body_only"`
	BlocksStrong  float64 `yaml:"blocks_strong" mapstructure:"blocks_strong"`
	BlocksWeak    float64 `yaml:"blocks_weak" mapstructure:"blocks_weak"`

	// Field scores for structured-data derived results.
	StructuredName         float64 `yaml:"structured_name" mapstructure:"structured_name"`
	StructuredList         float64 `yaml:"structured_list" mapstructure:"structured_list"`
	StructuredDerived      float64 `yaml:"structured_derived" mapstructure:"structured_derived"`
	StructuredCourse       float64 `yaml:"structured_course" mapstructure:"structured_course"`
	InferredCuisine        float64 `yaml:"inferred_cuisine" mapstructure:"inferred_cuisine"`
	MicrodataName          float64 `yaml:"microdata_name" mapstructure:"microdata_name"`
	MicrodataList          float64 `yaml:"microdata_list" mapstructure:"microdata_list"`
	HeuristicList          float64 `yaml:"heuristic_list" mapstructure:"heuristic_list"`
	HeuristicName          float64 `yaml:"heuristic_name" mapstructure:"heuristic_name"`
	SectionedIngredients   float64 `yaml:"sectioned_ingredients" mapstructure:"sectioned_ingredients"`
	VideoName              float64 `yaml:"video_name" mapstructure:"video_name"`
	VideoDescriptionList   float64 `yaml:"video_description_list" mapstructure:"video_description_list"`
	VideoCaptionDirections float64 `yaml:"video_caption_directions" mapstructure:"video_caption_directions"`
}

// DefaultWeights returns the observed defaults.
func DefaultWeights() Weights {
	return Weights{
		WebStructured: 0.7,
		WebDocument:   0.5,
		WebBodyOnly:   0.3,
		BlocksStrong:  0.9,
		BlocksWeak:    0.6,

		StructuredName:         0.95,
		StructuredList:         0.9,
		StructuredDerived:      0.8,
		StructuredCourse:       0.7,
		InferredCuisine:        0.3,
		MicrodataName:          0.9,
		MicrodataList:          0.85,
		HeuristicList:          0.7,
		HeuristicName:          0.6,
		SectionedIngredients:   0.9,
		VideoName:              0.9,
		VideoDescriptionList:   0.8,
		VideoCaptionDirections: 0.5,
	}
}
