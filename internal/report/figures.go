package report

// Figure file names. They double as figure IDs across the run.
const (
	FigBirthweightRegion      = "fig1_birthweight_region.png"
	FigBirthweightMaternalAge = "fig2_birthweight_maternal_age.png"
	FigDiarrheaAge            = "fig3_diarrhea_age.png"
	FigDiarrheaResidence      = "fig4_diarrhea_residence.png"
	FigORSWealth              = "fig5_ors_wealth.png"
	FigFeverARI               = "fig6_fever_ari_comparison.png"
	FigCareSeekingEducation   = "fig7_careseeking_education.png"
	FigRegionalHeatmap        = "fig8_regional_heatmap.png"
	FigMorbidityTreatment     = "fig9_morbidity_treatment.png"
	FigORSZinc                = "fig10_ors_zinc_treatment.png"
	FigFeeding                = "fig11_feeding_diarrhea.png"
	FigTreatment105           = "graphique_10_5_diarrhea_treatment.png"
	FigDiarrheaAge106         = "graphique_10_6_diarrhea_age.png"
	FigFeeding107             = "graphique_10_7_feeding_practices.png"
	FigPrevalence108          = "graphique_10_8_prevalence_treatment.png"
)

var captions = map[string]string{
	FigBirthweightRegion:      "Figure 1: Low birth weight (<2.5 kg) by region",
	FigBirthweightMaternalAge: "Figure 2: Low birth weight by maternal age",
	FigDiarrheaAge:            "Figure 3: Diarrhea prevalence by child age",
	FigDiarrheaResidence:      "Figure 4: Diarrhea by place of residence",
	FigORSWealth:              "Figure 5: ORS treatment for diarrhea by wealth quintile",
	FigFeverARI:               "Figure 6: Fever vs ARI prevalence",
	FigCareSeekingEducation:   "Figure 7: Care-seeking for fever by mother's education",
	FigRegionalHeatmap:        "Figure 8: Regional child morbidity indicators",
	FigMorbidityTreatment:     "Figure 9: Child morbidity prevalence and treatment seeking",
	FigORSZinc:                "Figure 10: Diarrhea treatment types",
	FigFeeding:                "Figure 11: Feeding practices during diarrhea",
	FigTreatment105:           "Graphique 10.5: Traitement de la diarrhée",
	FigDiarrheaAge106:         "Graphique 10.6: Prévalence de la diarrhée, par âge",
	FigFeeding107:             "Graphique 10.7: Pratiques alimentaires pendant la diarrhée",
	FigPrevalence108:          "Graphique 10.8: Prévalence et traitement des maladies infantiles",
}

// Figures lists every figure ID in report order.
func Figures() []string {
	return []string{
		FigBirthweightRegion, FigBirthweightMaternalAge,
		FigDiarrheaAge, FigDiarrheaResidence, FigORSWealth,
		FigFeverARI, FigCareSeekingEducation, FigRegionalHeatmap,
		FigMorbidityTreatment, FigORSZinc, FigFeeding,
		FigTreatment105, FigDiarrheaAge106, FigFeeding107, FigPrevalence108,
	}
}

// Caption returns the display caption of a figure ID.
func Caption(id string) string {
	if c, ok := captions[id]; ok {
		return c
	}
	return id
}
