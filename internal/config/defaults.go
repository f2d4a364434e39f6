package config

const (
	DefaultEnvironment     = "development"
	DefaultCredentialsFile = "firebase_config_server.json"
	DefaultBucket          = "ml-deployment-707dd.appspot.com"
	DefaultObject          = "models/07_model.onnx"
	DefaultModelPath       = "model.onnx"
	DefaultImagePath       = "img1.jpg"
	DefaultWidth           = 224
	DefaultHeight          = 224
	DefaultInterpolation   = "bilinear"
	DefaultPort            = 8080
	DefaultS3Region        = "auto"
)
