package config

// DefaultConfig 默认应用配置
func DefaultConfig() *Config {
	return &Config{
		DataFile:     "./data.csv",
		WideDataFile: "./AFAC.csv",
		HeaderRow:    0,
		OutputDir:    "./imgs",
		LogName:      "app.log",
		LogMaxSize:   "10 * 1024 * 1024",
		LogLevel:     "info",
		ChartWidth:   1920,
		ChartHeight:  1080,
		FontSize:     24,
		Source:       "Fuente: AFAC (2025)",
		Credit:       "@lapanquecita",
	}
}

// DefaultDataConfig 默认数据配置, 对应 AFAC 公布的两种 CSV 格式
func DefaultDataConfig() *DataConfig {
	return &DataConfig{
		Long: Schema{
			Layout:    LayoutLong,
			Delimiter: ",",
			Airport:   "AEROPUERTO",
			Date:      "FECHA",
			Category:  "OPCIONES",
			Origin:    "TIPO",
			Total:     "TOTAL",
		},
		Wide: Schema{
			Layout:    LayoutWide,
			Delimiter: ",",
			Airport:   "AEROPUERTO / AIRPORT",
			Year:      "AÑO / YEAR",
			Category:  "OPCIONES/ OPTIONS",
			Origin:    "TIPO/ TYPE",
			Months: []string{
				"ENE/JAN", "FEB/FEB", "MAR/MAR", "ABR/APR", "MAY/MAY", "JUN/JUN",
				"JUL/JUL", "AGO/AUG", "SEP/SEP", "OCT/OCT", "NOV/NOV", "DIC/DEC",
			},
		},
		Categories: map[string]string{
			"OPERACIONES": "OPERATIONS",
			"PASAJEROS":   "PASSENGERS",
			"CARGA":       "CARGO",
		},
		Origins: map[string]string{
			"NACIONAL":      "DOMESTIC",
			"INTERNACIONAL": "INTERNATIONAL",
		},
		OriginLabels: map[string]string{
			"DOMESTIC":      "nacionales",
			"INTERNATIONAL": "internacionales",
		},
		Names: map[string]string{
			"Ciudad De México":                      "Ciudad de México",
			"Ciudad De México/Mexico City":          "Ciudad de México",
			"Tuxtla Gutierrez (Angel Albino Corzo)": "Tuxtla Gutiérrez",
			"San Cristobal De Las Casas":            "San Cristóbal de las Casas",
			"San Jose Del Cabo":                     "San José del Cabo",
			"Merida":                                "Mérida",
			"Bajio":                                 "Bajío",
			"Santa Lucía":                           "Santa Lucía (AIFA)",
			"Culiacan":                              "Culiacán",
			"Minatitlan":                            "Minatitlán",
			"Torreon":                               "Torreón",
			"San Luis Potosi":                       "San Luis Potosí",
			"Cancun":                                "Cancún",
			"Cd. Del Carmen":                        "Cd. del Carmen",
			"Mazatlan":                              "Mazatlán",
			"Cd. Juarez":                            "Cd. Juárez",
		},
		MonthNames: []string{
			"Ene.", "Feb.", "Mar.", "Abr.", "May.", "Jun.",
			"Jul.", "Ago.", "Sep.", "Oct.", "Nov.", "Dic.",
		},
		Captions: map[string]Caption{
			"OPERATIONS": {
				Label: "operaciones",
				Color: "#ff6d00",
				Title: "Los %d aeropuertos de México con mayor número de operaciones durante %d",
				Note:  "El 🌎 indica que el aeropuerto recibió tráfico internacional.\nUna operación puede ser un aterrizaje o un despegue.\nLas cifras incluyen operaciones nacionales e internacionales.",
			},
			"PASSENGERS": {
				Label: "pasajeros",
				Color: "#00bfa5",
				Title: "Los %d aeropuertos de México con mayor número de pasajeros durante %d",
				Note:  "El 🌎 indica que el aeropuerto recibió tráfico internacional.\nLas cifras incluyen pasajeros nacionales y extranjeros.",
			},
			"CARGO": {
				Label: "operaciones de carga",
				Color: "#f06292",
				Title: "Los %d aeropuertos de México con mayor número de operaciones de carga durante %d",
				Note:  "El 🌎 indica que el aeropuerto recibió tráfico internacional.\nUna operación puede ser un aterrizaje o un despegue.\nLas cifras incluyen operaciones nacionales e internacionales.",
			},
		},
	}
}
