package config

// decisionChoices lists the valid values for each constrained decision
// keyword, following the SUMMA model build notes. Keywords absent from this
// table (simulation times, file names) accept any value.
var decisionChoices = map[string][]string{
	"soilCatTbl": {"STAS", "STAS-RUC", "ROSETTA"},
	"vegeParTbl": {"USGS", "MODIFIED_IGBP_MODIS_NOAH"},
	"soilStress": {"NoahType", "CLM_Type", "SiB_Type"},
	"stomResist": {"BallBerry", "Jarvis", "simpleResistance"},
	"num_method": {"itertive", "non_iter", "itersurf"},
	"fDerivMeth": {"numericl", "analytic"},
	"LAI_method": {"monTable", "specified"},
	"f_Richards": {"moisture", "mixdform"},
	"groundwatr": {"qTopmodl", "bigBuckt", "noXplict"},
	"hc_profile": {"constant", "pow_prof"},
	"bcUpprTdyn": {"presTemp", "NRG_Flux", "zeroFlux"},
	"bcLowrTdyn": {"presTemp", "zeroFlux"},
	"bcUpprSoiH": {"presHead", "liq_flux"},
	"bcLowrSoiH": {"presHead", "bottmPsi", "drainage", "zeroFlux"},
	"veg_traits": {"Raupach_BLM1994", "CM_QJRMS1998", "vegTypeTable"},
	"canopyEmis": {"simplExp", "difTrans"},
	"snowIncept": {"stickySnow", "lightSnow"},
	"windPrfile": {"exponential", "logBelowCanopy"},
	"astability": {"standard", "louisinv", "mahrtexp"},
	"canopySrad": {"noah_mp", "CLM_2stream", "UEB_2stream", "NL_scatter", "BeersLaw"},
	"alb_method": {"conDecay", "varDecay"},
	"compaction": {"consettl", "anderson"},
	"snowLayers": {"jrdn1991", "CLM_2010"},
	"thCondSnow": {"tyen1965", "melr1977", "jrdn1991", "smnv2000"},
	"thCondSoil": {"funcSoilWet", "mixConstit", "hanssonVZJ"},
	"spatial_gw": {"localColumn", "singleBasin"},
	"subRouting": {"timeDlay", "qInstant"},
	"snowDenNew": {"hedAndPom", "anderson", "pahaut_76", "constDens"},
}
